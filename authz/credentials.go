package authz

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/ledgai/mcpauth/token"
)

// ResolveCredentials returns the tenant credentials bound to the context.
// Callers use these to authenticate upstream platform calls; the enforcer
// never inspects them.
func ResolveCredentials(ac *Context) token.TenantCredentials {
	return ac.Credentials
}

// UpstreamAuth holds the header values an upstream platform request needs.
type UpstreamAuth struct {
	// Authorization is the full header value, including the Basic prefix.
	Authorization string

	// Timestamp is the unix-seconds string the hash was computed over.
	// Upstream expects it in a Timestamp header alongside Authorization.
	Timestamp string

	// OrganizationID is empty when the tenant has no organization binding.
	OrganizationID string
}

// NewUpstreamAuth derives the timestamped authentication headers for a
// platform API call. The API token is hashed with the current timestamp,
// so values expire quickly and the raw token never leaves the process.
func NewUpstreamAuth(creds token.TenantCredentials, now time.Time) UpstreamAuth {
	ts := strconv.FormatInt(now.Unix(), 10)
	sum := sha256.Sum256([]byte(creds.APIToken + ":" + ts))
	hashed := hex.EncodeToString(sum[:])
	pair := creds.UserID + ":" + hashed
	return UpstreamAuth{
		Authorization:  "Basic " + base64.StdEncoding.EncodeToString([]byte(pair)),
		Timestamp:      ts,
		OrganizationID: creds.OrganizationID,
	}
}
