package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/progvibe/internal/content"
	"github.com/ziadkadry99/progvibe/internal/nav"
)

// handleListSections returns every section with its url and description.
func (s *Server) handleListSections(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sections, err := s.loader.LoadSections(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list sections: %v", err)), nil
	}
	if len(sections) == 0 {
		return mcp.NewToolResultText("No sections found."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d section(s):\n", len(sections)))
	for _, sec := range sections {
		sb.WriteString(fmt.Sprintf("\n- %s (url: %s)\n  %s\n", sec.Title, sec.URL, sec.Description))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleListTutorials returns the tutorials of a section.
func (s *Server) handleListTutorials(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	section, err := requireSegment(request, "section")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	tutorials, err := s.loader.LoadTutorials(ctx, section)
	if err != nil {
		if content.IsNotFound(err) {
			return mcp.NewToolResultError(fmt.Sprintf("No section %q found. Use list_sections to see the available ones.", section)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to list tutorials: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Section %s has %d tutorial(s):\n", section, len(tutorials)))
	for _, tut := range tutorials {
		sb.WriteString(fmt.Sprintf("\n- %s (url: %s)\n  %s\n", tut.Title, tut.URL, tut.Description))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleGetTutorialMenu returns the chapter-grouped article list.
func (s *Server) handleGetTutorialMenu(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	section, err := requireSegment(request, "section")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tutorial, err := requireSegment(request, "tutorial")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	idx, err := s.loader.LoadIndexes(ctx, section, tutorial)
	if len(idx.Articles) == 0 {
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to load tutorial %s/%s: %v", section, tutorial, err)), nil
		}
		return mcp.NewToolResultText("The tutorial has no articles."), nil
	}

	menu := nav.BuildMenu(section, tutorial, "", idx)
	return mcp.NewToolResultText(formatMenu(menu)), nil
}

// handleGetArticle returns an article's Markdown with its navigation context.
func (s *Server) handleGetArticle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var key content.Key
	var err error
	if key.Section, err = requireSegment(request, "section"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if key.Tutorial, err = requireSegment(request, "tutorial"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if key.Article, err = requireSegment(request, "article"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := s.loader.LoadDocument(ctx, key)
	if err != nil {
		if content.IsNotFound(err) {
			return mcp.NewToolResultError(fmt.Sprintf("No article %q found. Use get_tutorial_menu to see the available ones.", key.String())), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to load article: %v", err)), nil
	}

	// Index failures only cost the navigation context.
	idx, _ := s.loader.LoadIndexes(ctx, key.Section, key.Tutorial)
	links := nav.Resolve(key.Section, key.Tutorial, key.Article, idx.Articles)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Article: %s\n", key.String()))
	if entry, ok := idx.Find(key.Article); ok {
		sb.WriteString(fmt.Sprintf("Title: %s\n", entry.Title))
		if title := idx.Chapters[string(entry.Chapter)]; title != "" {
			sb.WriteString(fmt.Sprintf("Chapter: %s\n", title))
		}
	}
	if links.HasBack() {
		sb.WriteString(fmt.Sprintf("Previous: %s\n", links.Back))
	}
	if links.HasForward() {
		sb.WriteString(fmt.Sprintf("Next: %s\n", links.Forward))
	}
	sb.WriteString("\n")
	sb.WriteString(doc)
	return mcp.NewToolResultText(sb.String()), nil
}

func requireSegment(request mcp.CallToolRequest, name string) (string, error) {
	v, err := request.RequireString(name)
	if err != nil {
		return "", fmt.Errorf("missing required parameter: %s", name)
	}
	if !content.ValidSegment(v) {
		return "", fmt.Errorf("invalid %s %q", name, v)
	}
	return v, nil
}

// formatMenu renders a menu as an indented outline.
func formatMenu(menu nav.Menu) string {
	var sb strings.Builder
	for _, ch := range menu.Chapters {
		title := ch.Title
		if title == "" {
			title = "(chapter " + ch.ID + ")"
		}
		sb.WriteString(title + "\n")
		for _, item := range ch.Items {
			sb.WriteString(fmt.Sprintf("  - %s: %s\n", item.Title, item.Path))
		}
	}
	return sb.String()
}
