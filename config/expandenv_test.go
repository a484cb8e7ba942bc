package config

import (
	"strings"
	"testing"
)

func TestExpandEnvStrict(t *testing.T) {
	t.Setenv("EXPAND_A", "alpha")
	t.Setenv("EXPAND_B", "beta")

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "no variables", in: "plain value", want: "plain value"},
		{name: "braced variable", in: "${EXPAND_A}", want: "alpha"},
		{name: "embedded variable", in: "pre-${EXPAND_A}-post", want: "pre-alpha-post"},
		{name: "two variables", in: "${EXPAND_A}:${EXPAND_B}", want: "alpha:beta"},
		{name: "escaped dollar", in: "cost: $$5", want: "cost: $5"},
		{name: "missing variable", in: "${EXPAND_MISSING}", wantErr: true},
		{name: "one missing among present", in: "${EXPAND_A}/${EXPAND_MISSING}", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandEnvStrict(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !strings.Contains(err.Error(), "EXPAND_MISSING") {
					t.Errorf("error should name the missing variable: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExpandEnvStrict: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExpandEnvStrict_MissingVariablesSorted(t *testing.T) {
	_, err := ExpandEnvStrict("${ZZZ_MISSING} ${AAA_MISSING}")
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if strings.Index(msg, "AAA_MISSING") > strings.Index(msg, "ZZZ_MISSING") {
		t.Errorf("missing variables should be sorted: %v", err)
	}
}
