package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/lukman83/boostgg-scrap/config"
	"github.com/lukman83/boostgg-scrap/internal/csvstore"
	"github.com/lukman83/boostgg-scrap/internal/importer"
	"github.com/lukman83/boostgg-scrap/internal/platform"
	"github.com/lukman83/boostgg-scrap/internal/store"
)

func registerTools(s *server.MCPServer, cfg *config.Config) {
	// scrape_service
	scrapeTool := mcp.NewTool("scrape_service",
		mcp.WithDescription("Extract the full option schema of one boosting-service product page"),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Product page URL"),
		),
	)
	s.AddTool(scrapeTool, handleScrapeService)

	// discover_products
	discoverTool := mcp.NewTool("discover_products",
		mcp.WithDescription("List product page URLs linked from a listing page"),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Listing page URL"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum links to return (default: all)"),
		),
	)
	s.AddTool(discoverTool, handleDiscoverProducts)

	// import_csv
	importTool := mcp.NewTool("import_csv",
		mcp.WithDescription("Import the scraped CSV files into MySQL, one transaction per service"),
		mcp.WithBoolean("init_schema",
			mcp.Description("Create the tables if they do not exist (default: false)"),
		),
	)
	s.AddTool(importTool, makeHandleImportCSV(cfg))
}

func handleScrapeService(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url := request.GetString("url", "")
	if url == "" {
		return mcp.NewToolResultError("url is required"), nil
	}

	scraper, err := platform.Get("skycoach")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("platform error: %v", err)), nil
	}

	batch, err := scraper.ScrapeProduct(ctx, url)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scrape error: %v", err)), nil
	}

	data, _ := json.MarshalIndent(batch, "", "  ")
	return mcp.NewToolResultText(string(data)), nil
}

func handleDiscoverProducts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url := request.GetString("url", "")
	if url == "" {
		return mcp.NewToolResultError("url is required"), nil
	}
	limit := request.GetInt("limit", 0)

	scraper, err := platform.Get("skycoach")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("platform error: %v", err)), nil
	}

	links, err := scraper.DiscoverProducts(ctx, url, platform.DiscoverOpts{Limit: limit})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("discover error: %v", err)), nil
	}

	data, _ := json.MarshalIndent(links, "", "  ")
	return mcp.NewToolResultText(string(data)), nil
}

func makeHandleImportCSV(cfg *config.Config) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if cfg.MySQLDSN == "" {
			return mcp.NewToolResultError("no MySQL DSN configured (BOOSTGG_MYSQL_DSN)"), nil
		}

		cs := &csvstore.Store{ServicesPath: cfg.ServicesCSV, OptionsPath: cfg.OptionsCSV}
		services, err := cs.ReadServices()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("read services CSV: %v", err)), nil
		}
		rows, err := cs.ReadOptions()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("read options CSV: %v", err)), nil
		}
		if len(services) == 0 {
			return mcp.NewToolResultError("nothing to import: services CSV is empty"), nil
		}

		st, err := store.OpenMySQL(ctx, cfg.MySQLDSN)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("connect: %v", err)), nil
		}
		defer st.Close()

		if request.GetBool("init_schema", false) {
			if err := st.InitSchema(ctx); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("init schema: %v", err)), nil
			}
		}

		im := &importer.Importer{
			Store:       st,
			ReuseByName: cfg.ReuseByName,
			Log:         log.New(os.Stderr, "", log.LstdFlags),
		}
		summary := im.ImportAll(ctx, services, rows)

		out := struct {
			Imported []importer.Result `json:"imported"`
			Failed   map[string]string `json:"failed,omitempty"`
		}{Imported: summary.Imported}
		if len(summary.Failed) > 0 {
			out.Failed = make(map[string]string, len(summary.Failed))
			for name, err := range summary.Failed {
				out.Failed[name] = err.Error()
			}
		}

		data, _ := json.MarshalIndent(out, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	}
}
