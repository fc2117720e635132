// Package config loads hand engine game configuration from HCL files.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/cardroom/handengine/internal/engine"
)

// File is the on-disk configuration shape:
//
//	game "nlhe" {
//	  small_blind = 5
//	  big_blind   = 10
//	  ante        = 0
//	  format      = "cash"
//	  currency    = "chips"
//	}
type File struct {
	Game GameBlock `hcl:"game,block"`
}

// GameBlock configures one game variant.
type GameBlock struct {
	Variant    string `hcl:"variant,label"`
	SmallBlind int    `hcl:"small_blind"`
	BigBlind   int    `hcl:"big_blind"`
	Ante       int    `hcl:"ante,optional"`
	Format     string `hcl:"format,optional"`
	Currency   string `hcl:"currency,optional"`
}

// Default returns the configuration used when no file is present.
func Default() engine.GameConfig {
	return engine.GameConfig{
		Variant:  "nlhe",
		Format:   engine.FormatCash,
		Blinds:   engine.Blinds{Small: 5, Big: 10},
		Currency: "chips",
	}
}

// Load reads an HCL game configuration. A missing file yields Default.
func Load(filename string) (engine.GameConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return engine.GameConfig{}, fmt.Errorf("parse HCL file: %s", diags.Error())
	}

	var cfg File
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return engine.GameConfig{}, fmt.Errorf("decode HCL: %s", diags.Error())
	}

	return fromBlock(cfg.Game)
}

func fromBlock(g GameBlock) (engine.GameConfig, error) {
	if g.SmallBlind <= 0 || g.BigBlind <= 0 {
		return engine.GameConfig{}, fmt.Errorf("blinds must be positive, got %d/%d", g.SmallBlind, g.BigBlind)
	}
	if g.SmallBlind > g.BigBlind {
		return engine.GameConfig{}, fmt.Errorf("small blind %d exceeds big blind %d", g.SmallBlind, g.BigBlind)
	}

	format := engine.GameFormat(g.Format)
	switch format {
	case "":
		format = engine.FormatCash
	case engine.FormatCash, engine.FormatTournament:
	default:
		return engine.GameConfig{}, fmt.Errorf("unknown game format %q", g.Format)
	}

	currency := g.Currency
	if currency == "" {
		currency = "chips"
	}

	return engine.GameConfig{
		Variant:  g.Variant,
		Format:   format,
		Blinds:   engine.Blinds{Small: g.SmallBlind, Big: g.BigBlind, Ante: g.Ante},
		Currency: currency,
	}, nil
}
