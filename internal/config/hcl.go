package config

import (
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
)

// HCL config files mirror the YAML layout with blocks:
//
//	metal_level = "silver"
//	output {
//	  format = "json"
//	}
//	columns {
//	  plans {
//	    rate = "monthly_rate"
//	  }
//	}
//
// Only attributes present in the file are merged, so defaults and
// environment overrides keep applying to everything else.

type hclFile struct {
	Version    *string     `hcl:"version,optional"`
	MetalLevel *string     `hcl:"metal_level,optional"`
	Columns    *hclColumns `hcl:"columns,block"`
	Input      *hclInput   `hcl:"input,block"`
	Output     *hclOutput  `hcl:"output,block"`
	Logging    *hclLogging `hcl:"logging,block"`
}

type hclColumns struct {
	Plans   *hclPlanColumns   `hcl:"plans,block"`
	Zips    *hclZipColumns    `hcl:"zips,block"`
	Targets *hclTargetColumns `hcl:"targets,block"`
}

type hclPlanColumns struct {
	State      *string `hcl:"state,optional"`
	MetalLevel *string `hcl:"metal_level,optional"`
	Rate       *string `hcl:"rate,optional"`
	RateArea   *string `hcl:"rate_area,optional"`
}

type hclZipColumns struct {
	Zipcode  *string `hcl:"zipcode,optional"`
	State    *string `hcl:"state,optional"`
	RateArea *string `hcl:"rate_area,optional"`
}

type hclTargetColumns struct {
	Zipcode *string `hcl:"zipcode,optional"`
}

type hclInput struct {
	Delimiter  *string `hcl:"delimiter,optional"`
	LazyQuotes *bool   `hcl:"lazy_quotes,optional"`
	Sheet      *string `hcl:"sheet,optional"`
}

type hclOutput struct {
	Format *string `hcl:"format,optional"`
	Path   *string `hcl:"path,optional"`
}

type hclLogging struct {
	Level       *string `hcl:"level,optional"`
	Format      *string `hcl:"format,optional"`
	Output      *string `hcl:"output,optional"`
	Development *bool   `hcl:"development,optional"`
}

func isHCL(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".hcl")
}

// mergeHCL decodes an HCL config file and merges the attributes it sets
// into v.
func mergeHCL(v *viper.Viper, path string) error {
	var file hclFile
	if err := hclsimple.DecodeFile(path, nil, &file); err != nil {
		return eris.Wrap(err, "config: decode hcl")
	}

	settings := map[string]interface{}{}
	put(settings, "version", file.Version)
	put(settings, "metal_level", file.MetalLevel)

	if c := file.Columns; c != nil {
		columns := map[string]interface{}{}
		if p := c.Plans; p != nil {
			plans := map[string]interface{}{}
			put(plans, "state", p.State)
			put(plans, "metal_level", p.MetalLevel)
			put(plans, "rate", p.Rate)
			put(plans, "rate_area", p.RateArea)
			columns["plans"] = plans
		}
		if z := c.Zips; z != nil {
			zips := map[string]interface{}{}
			put(zips, "zipcode", z.Zipcode)
			put(zips, "state", z.State)
			put(zips, "rate_area", z.RateArea)
			columns["zips"] = zips
		}
		if t := c.Targets; t != nil {
			targets := map[string]interface{}{}
			put(targets, "zipcode", t.Zipcode)
			columns["targets"] = targets
		}
		settings["columns"] = columns
	}

	if in := file.Input; in != nil {
		input := map[string]interface{}{}
		put(input, "delimiter", in.Delimiter)
		put(input, "lazy_quotes", in.LazyQuotes)
		put(input, "sheet", in.Sheet)
		settings["input"] = input
	}

	if out := file.Output; out != nil {
		o := map[string]interface{}{}
		put(o, "format", out.Format)
		put(o, "path", out.Path)
		settings["output"] = o
	}

	if l := file.Logging; l != nil {
		lg := map[string]interface{}{}
		put(lg, "level", l.Level)
		put(lg, "format", l.Format)
		put(lg, "output", l.Output)
		put(lg, "development", l.Development)
		settings["logging"] = lg
	}

	if err := v.MergeConfigMap(settings); err != nil {
		return eris.Wrap(err, "config: merge hcl")
	}
	return nil
}

func put[T any](m map[string]interface{}, key string, value *T) {
	if value != nil {
		m[key] = *value
	}
}
