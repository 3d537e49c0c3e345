package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/sceneview/internal/scene"
)

// NewInspectCmd creates the "inspect" subcommand
func NewInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <definition>",
		Short: "List the scenes and level tree of a definition",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}

	cmd.Flags().String("format", "text", "Output format: text | json")

	return cmd
}

type inspectScene struct {
	ID       string   `json:"id"`
	URL      string   `json:"url"`
	Current  bool     `json:"current"`
	Override []string `json:"overrides,omitempty"`
}

type inspectLevel struct {
	Name     string          `json:"name"`
	Scene    string          `json:"scene,omitempty"`
	Children []*inspectLevel `json:"children,omitempty"`
}

type inspectOutput struct {
	Scenes []inspectScene `json:"scenes"`
	Levels *inspectLevel  `json:"levels,omitempty"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	out := cmd.OutOrStdout()

	def, err := scene.LoadDefinitionFile(args[0])
	if err != nil {
		return exitError(err, "load %s", args[0])
	}

	report, err := buildInspectOutput(def)
	if err != nil {
		return exitError(err, "inspect %s", args[0])
	}

	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "text":
		printInspect(out, report)
		return nil
	default:
		return &ExitError{Code: exitValidation, Message: fmt.Sprintf("unknown format %q", format)}
	}
}

func buildInspectOutput(def *scene.Definition) (*inspectOutput, error) {
	report := &inspectOutput{}

	for _, id := range def.SceneIDs() {
		cfg := def.Scenes[id]
		overrides, err := sceneOverrides(cfg)
		if err != nil {
			return nil, err
		}
		report.Scenes = append(report.Scenes, inspectScene{
			ID:       id,
			URL:      cfg.URL,
			Current:  id == def.Scene,
			Override: overrides,
		})
	}

	if def.Levels != nil {
		root, err := scene.NewLevelTree(def.Levels, nil)
		if err != nil {
			return nil, err
		}
		report.Levels = toInspectLevel(root)
	}
	return report, nil
}

func toInspectLevel(l *scene.Level) *inspectLevel {
	out := &inspectLevel{Name: l.Name(), Scene: l.Scene()}
	for _, child := range l.Children() {
		out.Children = append(out.Children, toInspectLevel(child))
	}
	return out
}

func printInspect(w io.Writer, report *inspectOutput) {
	fmt.Fprintln(w, "Scenes:")
	for _, s := range report.Scenes {
		marker := " "
		if s.Current {
			marker = "*"
		}
		fmt.Fprintf(w, "  %s %-12s %s\n", marker, s.ID, s.URL)
		if len(s.Override) > 0 {
			fmt.Fprintf(w, "      overrides: %s\n", strings.Join(s.Override, ", "))
		}
	}

	if report.Levels == nil {
		return
	}
	fmt.Fprintln(w, "Levels:")
	var walk func(l *inspectLevel, depth int)
	walk = func(l *inspectLevel, depth int) {
		fmt.Fprintf(w, "  %s%s (%s)\n", strings.Repeat("  ", depth), l.Name, l.Scene)
		for _, c := range l.Children {
			walk(c, depth+1)
		}
	}
	walk(report.Levels, 0)
}
