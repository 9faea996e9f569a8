package mcp

import "github.com/mark3labs/mcp-go/mcp"

// listSectionsTool defines the list_sections MCP tool.
var listSectionsTool = mcp.NewTool("list_sections",
	mcp.WithDescription("List the subject sections of the tutorial site in display order."),
)

// listTutorialsTool defines the list_tutorials MCP tool.
var listTutorialsTool = mcp.NewTool("list_tutorials",
	mcp.WithDescription("List the tutorials of one section in display order."),
	mcp.WithString("section",
		mcp.Required(),
		mcp.Description("Section url segment, e.g. \"go\""),
	),
)

// getTutorialMenuTool defines the get_tutorial_menu MCP tool.
var getTutorialMenuTool = mcp.NewTool("get_tutorial_menu",
	mcp.WithDescription("Get the article list of a tutorial grouped by chapter, in reading order."),
	mcp.WithString("section",
		mcp.Required(),
		mcp.Description("Section url segment"),
	),
	mcp.WithString("tutorial",
		mcp.Required(),
		mcp.Description("Tutorial url segment"),
	),
)

// getArticleTool defines the get_article MCP tool.
var getArticleTool = mcp.NewTool("get_article",
	mcp.WithDescription("Get the Markdown source of an article together with its chapter and the previous and next articles."),
	mcp.WithString("section",
		mcp.Required(),
		mcp.Description("Section url segment"),
	),
	mcp.WithString("tutorial",
		mcp.Required(),
		mcp.Description("Tutorial url segment"),
	),
	mcp.WithString("article",
		mcp.Required(),
		mcp.Description("Article url as listed in articles.json"),
	),
)
