// Package config reads the optional TOML settings file and feeds it to kong
// as a resolver, so any flag can be given a default there.
//
//	config  = "~/plans/macroplan.db"
//	catalog = "~/plans/foods.toml"
//
//	[backup]
//	keep = 7
//
// Nested tables are joined to the flag name with "-", so [backup] keep sets
// --backup-keep. Flags given on the command line win over the file.
package config

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/pelletier/go-toml/v2"
)

// TOML is a kong.ConfigurationLoader.
func TOML(r io.Reader) (kong.Resolver, error) {
	values, err := Parse(r)
	if err != nil {
		return nil, err
	}

	var f kong.ResolverFunc = func(context *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
		if raw, ok := values[flag.Name]; ok {
			return raw, nil
		}
		if raw, ok := values[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
			return raw, nil
		}
		return nil, nil
	}
	return f, nil
}

// Parse decodes a settings document into flag name/value pairs. Values are
// rendered as strings, arrays comma-joined, which every kong mapper accepts.
func Parse(r io.Reader) (map[string]string, error) {
	doc := map[string]any{}
	if err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	values := map[string]string{}
	if err := flatten("", doc, values); err != nil {
		return nil, err
	}
	return values, nil
}

func flatten(prefix string, doc map[string]any, out map[string]string) error {
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		name := k
		if prefix != "" {
			name = prefix + "-" + k
		}

		switch v := doc[k].(type) {
		case map[string]any:
			if err := flatten(name, v, out); err != nil {
				return err
			}
		case []any:
			parts := make([]string, len(v))
			for i, item := range v {
				if _, nested := item.(map[string]any); nested {
					return fmt.Errorf("setting %q: arrays of tables are not supported", name)
				}
				parts[i] = fmt.Sprint(item)
			}
			out[name] = strings.Join(parts, ",")
		default:
			out[name] = fmt.Sprint(v)
		}
	}
	return nil
}

// SettingsPath picks the settings file before kong parses anything: an
// explicit --settings argument, then the environment value, then the default.
func SettingsPath(args []string, env, fallback string) string {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		if v, ok := strings.CutPrefix(arg, "--settings="); ok {
			return v
		}
		if arg == "--settings" && i+1 < len(args) {
			return args[i+1]
		}
	}
	if env != "" {
		return env
	}
	return fallback
}
