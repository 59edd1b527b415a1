// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".hcl")
}

// 📝 Parse parses the config from HCL. The variable home holds the user's
// home directory.
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	home, _ := os.UserHomeDir()
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"home": cty.StringVal(home),
		},
	}

	// Define HCL schema
	type hclConfig struct {
		Library           string   `hcl:"library"`
		TrashDir          string   `hcl:"trash_dir,optional"`
		Database          string   `hcl:"database,optional"`
		Workers           int      `hcl:"workers,optional"`
		Include           []string `hcl:"include,optional"`
		FallbackExtension string   `hcl:"fallback_extension,optional"`
		Watch             *struct {
			Dir      string   `hcl:"dir"`
			Patterns []string `hcl:"patterns,optional"`
			Debounce string   `hcl:"debounce,optional"`
		} `hcl:"watch,block"`
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := &Config{
		Library:           hclCfg.Library,
		TrashDir:          hclCfg.TrashDir,
		Database:          hclCfg.Database,
		Workers:           hclCfg.Workers,
		Include:           hclCfg.Include,
		FallbackExtension: hclCfg.FallbackExtension,
	}
	if hclCfg.Watch != nil {
		cfg.Watch = &WatchConfig{
			Dir:      hclCfg.Watch.Dir,
			Patterns: hclCfg.Watch.Patterns,
			Debounce: hclCfg.Watch.Debounce,
		}
	}

	return cfg, nil
}
