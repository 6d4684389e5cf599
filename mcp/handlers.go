package mcp

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/ludo-technologies/jscan/domain"
	"github.com/mark3labs/mcp-go/mcp"
)

// HandlerSet wraps dependencies for MCP tool handlers
type HandlerSet struct {
	deps *Dependencies
}

// NewHandlerSet creates a new HandlerSet with the given dependencies
func NewHandlerSet(deps *Dependencies) *HandlerSet {
	return &HandlerSet{deps: deps}
}

// clusterSummary is the compact tool result: groups by location, no code
type clusterSummary struct {
	Groups      []groupSummary            `json:"groups"`
	Unique      []string                  `json:"unique_functions"`
	Statistics  *domain.ClusterStatistics `json:"statistics"`
	ParseErrors []string                  `json:"parse_errors,omitempty"`
}

type groupSummary struct {
	Size       int      `json:"size"`
	Similarity float64  `json:"similarity"`
	Functions  []string `json:"functions"`
}

// HandleClusterFunctions handles the cluster_functions tool
func (h *HandlerSet) HandleClusterFunctions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return mcp.NewToolResultError("path parameter is required"), nil
	}
	paths := append([]string{path}, stringSlice(args["extra_paths"])...)
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return mcp.NewToolResultError(fmt.Sprintf("path does not exist: %s", p)), nil
		}
	}

	req, err := h.deps.LoadRequest(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load configuration: %v", err)), nil
	}
	req.Paths = paths
	req.ShowProgress = false

	if threshold, ok := args["similarity_threshold"].(float64); ok {
		req.SimilarityThreshold = threshold
	}
	if recursive, ok := args["recursive"].(bool); ok {
		req.Recursive = recursive
	}
	if include := stringSlice(args["include"]); len(include) > 0 {
		req.IncludePatterns = include
	}
	if exclude := stringSlice(args["exclude"]); len(exclude) > 0 {
		req.ExcludePatterns = exclude
	}

	outputMode := "summary"
	if mode, ok := args["output_mode"].(string); ok && mode != "" {
		if mode != "summary" && mode != "full" {
			return mcp.NewToolResultError(fmt.Sprintf("invalid output_mode: %s (expected summary or full)", mode)), nil
		}
		outputMode = mode
	}

	uc, err := h.deps.BuildClusterUseCase()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to initialize clustering: %v", err)), nil
	}

	response, err := uc.Run(ctx, *req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("clustering failed: %v", err)), nil
	}

	var result interface{} = response
	if outputMode == "summary" {
		result = summarize(response)
	}

	jsonData, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func summarize(response *domain.ClusterResponse) *clusterSummary {
	summary := &clusterSummary{
		Groups:      []groupSummary{},
		Unique:      []string{},
		Statistics:  response.Statistics,
		ParseErrors: response.ParseErrors,
	}
	for _, node := range response.Forest {
		if node.IsLeaf() {
			summary.Unique = append(summary.Unique, describe(node.Snippet))
			continue
		}
		group := groupSummary{Size: node.Size, Similarity: node.Similarity}
		for _, s := range node.Snippets() {
			group.Functions = append(group.Functions, describe(s))
		}
		summary.Groups = append(summary.Groups, group)
	}
	return summary
}

func describe(s *domain.SnippetRef) string {
	return s.Name + " " + s.Location()
}

func stringSlice(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		if strs, ok := v.([]string); ok {
			return strs
		}
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
