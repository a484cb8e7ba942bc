package scope

import (
	"fmt"
	"sort"
)

// toolScopes maps each tool name to the scopes that satisfy its
// requirement. A request is authorized when the caller holds any one of
// the listed scopes; tools are never satisfied by unrelated categories.
var toolScopes = map[string][]Scope{
	// Account tools
	"read_account": {AccountRead},

	// Project tools
	"create_project": {ProjectsWrite},
	"read_project":   {ProjectsRead},
	"list_projects":  {ProjectsRead},
	"update_project": {ProjectsWrite},
	"delete_project": {ProjectsDelete},

	// Project collaboration tools
	"create_project_collaborator": {CollaborationWrite},
	"read_project_collaborators":  {CollaborationRead},
	"update_project_collaborator": {CollaborationWrite},
	"delete_project_collaborator": {CollaborationDelete},

	// Project node tools
	"read_project_nodes":   {ProjectsRead},
	"update_project_nodes": {ProjectsWrite},

	// Compilation tools
	"create_compile": {CompileExecute},
	"read_compile":   {ProjectsRead},

	// File tools
	"create_file":          {FilesWrite},
	"read_file":            {FilesRead},
	"update_file_name":     {FilesWrite},
	"update_file_contents": {FilesWrite},
	"delete_file":          {FilesDelete},

	// Backtest tools
	"create_backtest":        {BacktestsWrite},
	"read_backtest":          {BacktestsRead},
	"list_backtests":         {BacktestsRead},
	"read_backtest_chart":    {BacktestsRead},
	"read_backtest_orders":   {BacktestsRead},
	"read_backtest_insights": {BacktestsRead},
	"update_backtest":        {BacktestsWrite},
	"delete_backtest":        {BacktestsDelete},

	// Optimization tools
	"estimate_optimization_time": {OptimizationsRead},
	"create_optimization":        {OptimizationsWrite},
	"read_optimization":          {OptimizationsRead},
	"list_optimizations":         {OptimizationsRead},
	"update_optimization":        {OptimizationsWrite},
	"abort_optimization":         {OptimizationsWrite},
	"delete_optimization":        {OptimizationsDelete},

	// Live trading tools
	"authorize_connection":     {LiveWrite},
	"create_live_algorithm":    {LiveWrite},
	"read_live_algorithm":      {LiveRead},
	"list_live_algorithms":     {LiveRead},
	"read_live_chart":          {LiveRead},
	"read_live_logs":           {LiveRead},
	"read_live_portfolio":      {LiveRead},
	"read_live_orders":         {LiveRead},
	"read_live_insights":       {LiveRead},
	"stop_live_algorithm":      {LiveExecute},
	"liquidate_live_algorithm": {LiveExecute},
	"delete_live_algorithm":    {LiveDelete},

	// Live command tools
	"create_live_command":    {LiveExecute},
	"broadcast_live_command": {LiveExecute, AdminWrite},

	// Object store tools
	"upload_object":                       {ObjectsWrite},
	"read_object_properties":              {ObjectsRead},
	"read_object_store_file_job_id":       {ObjectsRead},
	"read_object_store_file_download_url": {ObjectsRead},
	"list_object_store_files":             {ObjectsRead},
	"delete_object":                       {ObjectsDelete},

	// AI tools
	"check_initialization_errors": {AIExecute},
	"complete_code":               {AIExecute},
	"enhance_error_message":       {AIExecute},
	"update_code_to_pep8":         {AIExecute},
	"check_syntax":                {AIExecute},
	"search_quantconnect":         {AIRead},

	// Admin tools
	"read_lean_versions":      {AdminRead},
	"read_mcp_server_version": {AdminRead},
}

func init() {
	// Every tool requirement must resolve to registered scopes.
	for tool, required := range toolScopes {
		for _, sc := range required {
			if _, ok := registry[sc]; !ok {
				panic(fmt.Sprintf("scope: tool %q requires unregistered scope %q", tool, sc))
			}
		}
	}
}

// RequiredScopes returns the scope set that satisfies the named tool.
func RequiredScopes(tool string) (Set, error) {
	required, ok := toolScopes[tool]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, tool)
	}
	return NewSet(required...), nil
}

// KnownTool reports whether the tool has a registered scope requirement.
func KnownTool(tool string) bool {
	_, ok := toolScopes[tool]
	return ok
}

// Tools returns all registered tool names in lexical order.
func Tools() []string {
	names := make([]string, 0, len(toolScopes))
	for name := range toolScopes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ToolCount returns the number of registered tools.
func ToolCount() int {
	return len(toolScopes)
}
