package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/sceneview/internal/config"
	"github.com/KirkDiggler/sceneview/internal/errors"
	"github.com/KirkDiggler/sceneview/internal/rendering"
	"github.com/KirkDiggler/sceneview/internal/repositories/parameters"
	"github.com/KirkDiggler/sceneview/internal/scene"
)

// NewParamsCmd creates the "params" subcommand
func NewParamsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Print rendering parameters",
		Long: "Print the default rendering parameters, or the parameters stored for a scene " +
			"when --scene is given and REDIS_URL is set.",
		Args: cobra.NoArgs,
		RunE: runParams,
	}

	cmd.Flags().String("scene", "", "Scene ID whose stored parameters to print")
	cmd.Flags().String("format", "yaml", "Output format: yaml | json")
	cmd.Flags().Bool("changed", false, "Only print keys that differ from the defaults")

	return cmd
}

func runParams(cmd *cobra.Command, _ []string) error {
	sceneID, _ := cmd.Flags().GetString("scene")
	format, _ := cmd.Flags().GetString("format")
	changed, _ := cmd.Flags().GetBool("changed")

	cfg, err := config.Load()
	if err != nil {
		return exitError(err, "load config")
	}

	p := rendering.Defaults()
	if sceneID != "" && cfg.Redis.URL != "" {
		repo, client, err := parameters.NewRedisFromURL(cfg.Redis.URL)
		if err != nil {
			return exitError(err, "connect to redis")
		}
		defer client.Close()

		p, err = storedOrDefaults(cmd.Context(), repo, sceneID)
		if err != nil {
			return exitError(err, "read parameters for %s", sceneID)
		}
	}

	return writeParameters(cmd.OutOrStdout(), p, format, changed)
}

func storedOrDefaults(ctx context.Context, repo parameters.Repository, sceneID string) (*rendering.Parameter, error) {
	p, err := repo.Get(ctx, sceneID)
	if errors.IsNotFound(err) {
		return rendering.Defaults(), nil
	}
	return p, err
}

// writeParameters prints p keyed by parameter name
func writeParameters(w io.Writer, p *rendering.Parameter, format string, changedOnly bool) error {
	keys := rendering.Keys()
	if changedOnly {
		keys = rendering.Diff(rendering.Defaults(), p)
	}

	switch format {
	case "json":
		values := make(map[string]any, len(keys))
		for _, k := range keys {
			v, _ := p.Get(k)
			values[k] = v
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(values)
	case "yaml":
		// a mapping node keeps declaration order
		doc := &yaml.Node{Kind: yaml.MappingNode}
		for _, k := range keys {
			v, _ := p.Get(k)
			value := &yaml.Node{}
			if err := value.Encode(v); err != nil {
				return err
			}
			doc.Content = append(doc.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: k}, value)
		}
		if len(keys) == 0 {
			doc.Style = yaml.FlowStyle
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return &ExitError{Code: exitValidation, Message: fmt.Sprintf("unknown format %q", format)}
	}
}

// sceneOverrides lists the parameter keys a scene config changes
func sceneOverrides(cfg *scene.SceneConfig) ([]string, error) {
	p, err := cfg.RenderingParameter()
	if err != nil {
		return nil, err
	}
	return rendering.Diff(rendering.Defaults(), p), nil
}
