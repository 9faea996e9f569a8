package cmd

import (
	"fmt"
	"html/template"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/progvibe/internal/augment"
	"github.com/ziadkadry99/progvibe/internal/content"
	"github.com/ziadkadry99/progvibe/internal/render"
	"github.com/ziadkadry99/progvibe/internal/theme"
)

var renderCmd = &cobra.Command{
	Use:   "render <section/tutorial/article | file.md>",
	Short: "Render one article to standalone HTML on stdout",
	Long: `Renders a single article with syntax highlighting. The argument is either
an article key from the content source or a path to a local Markdown file.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().String("theme", string(theme.Default), "theme whose code style is used (dark or light)")
	renderCmd.Flags().Bool("fragment", false, "print only the article body")
	rootCmd.AddCommand(renderCmd)
}

var standaloneTemplate = template.Must(template.New("standalone").Parse(`<!DOCTYPE html>
<html lang="ru">
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
</head>
<body>
{{.Body}}
</body>
</html>
`))

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	themeName, _ := cmd.Flags().GetString("theme")
	t, err := theme.Parse(themeName)
	if err != nil {
		return err
	}

	var markdown string
	if strings.HasSuffix(args[0], ".md") {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		markdown = string(data)
	} else {
		parts := strings.Split(strings.Trim(args[0], "/"), "/")
		if len(parts) != 3 {
			return fmt.Errorf("expected section/tutorial/article, got %q", args[0])
		}
		key := content.Key{Section: parts[0], Tutorial: parts[1], Article: parts[2]}
		if !key.Valid() {
			return fmt.Errorf("invalid article key %q", args[0])
		}
		markdown, err = newLoader(cfg, log).LoadDocument(cmd.Context(), key)
		if err != nil {
			return err
		}
	}

	r := render.New(render.WithHighlighting(newAugmenter(cfg).StyleFor(t)))
	body, err := r.Render(markdown)
	if err != nil {
		return fmt.Errorf("rendering: %w", err)
	}
	body, err = augment.AttachButtonsHTML(body)
	if err != nil {
		return err
	}

	if fragment, _ := cmd.Flags().GetBool("fragment"); fragment {
		fmt.Println(body)
		return nil
	}
	return standaloneTemplate.Execute(os.Stdout, struct {
		Title string
		Body  template.HTML
	}{Title: render.Title(markdown), Body: template.HTML(body)})
}
