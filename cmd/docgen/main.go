// Command docgen regenerates docs/api.adoc from the @Title/@Route
// annotations on the internal/api handlers. The generated document is
// served, rendered, through GET /api/docs/api.adoc.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

type Endpoint struct {
	Title       string
	Route       string
	Description string
	Response    string
}

func main() {
	apiDir := "internal/api"
	outPath := filepath.Join("docs", "api.adoc")
	if len(os.Args) > 1 {
		outPath = os.Args[1]
	}

	files, err := os.ReadDir(apiDir)
	if err != nil {
		panic(err)
	}

	var endpoints []Endpoint

	// Regex to match comments
	reTitle := regexp.MustCompile(`// @Title: (.*)`)
	reRoute := regexp.MustCompile(`// @Route: (.*)`)
	reDesc := regexp.MustCompile(`// @Description: (.*)`)
	reResp := regexp.MustCompile(`// @Response: (.*)`)

	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".go") || strings.HasSuffix(file.Name(), "_test.go") {
			continue
		}

		f, err := os.Open(filepath.Join(apiDir, file.Name()))
		if err != nil {
			continue
		}

		scanner := bufio.NewScanner(f)
		var current Endpoint

		for scanner.Scan() {
			line := scanner.Text()

			if match := reTitle.FindStringSubmatch(line); len(match) > 1 {
				current.Title = strings.TrimSpace(match[1])
			}
			if match := reRoute.FindStringSubmatch(line); len(match) > 1 {
				current.Route = strings.TrimSpace(match[1])
			}
			if match := reDesc.FindStringSubmatch(line); len(match) > 1 {
				current.Description = strings.TrimSpace(match[1])
			}
			if match := reResp.FindStringSubmatch(line); len(match) > 1 {
				current.Response = strings.TrimSpace(match[1])
				// End of block, append and reset
				if current.Title != "" && current.Route != "" {
					endpoints = append(endpoints, current)
					current = Endpoint{}
				}
			}
		}
		f.Close()
	}

	sort.Slice(endpoints, func(i, j int) bool {
		return routePath(endpoints[i].Route) < routePath(endpoints[j].Route)
	})

	if err := os.WriteFile(outPath, []byte(generateAdoc(endpoints)), 0o644); err != nil {
		panic(err)
	}
	fmt.Printf("Wrote %d endpoints to %s\n", len(endpoints), outPath)
}

func routePath(route string) string {
	parts := strings.SplitN(route, " ", 2)
	if len(parts) == 2 {
		return parts[1]
	}
	return route
}

func generateAdoc(endpoints []Endpoint) string {
	var b strings.Builder
	b.WriteString("= FarmProof API Reference\n")
	b.WriteString(":toc:\n\n")
	b.WriteString("Auto-generated from handler annotations. Do not edit by hand;\n")
	b.WriteString("run `go run ./cmd/docgen` after changing the API surface.\n\n")

	for _, ep := range endpoints {
		b.WriteString(fmt.Sprintf("== %s\n\n", ep.Title))
		b.WriteString(fmt.Sprintf("`%s`\n\n", ep.Route))
		if ep.Description != "" {
			b.WriteString(ep.Description + "\n\n")
		}
		if ep.Response != "" {
			b.WriteString("Response:\n\n")
			b.WriteString("[source,json]\n----\n" + ep.Response + "\n----\n\n")
		}
	}
	return b.String()
}
