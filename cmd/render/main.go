// cmd/render/main.go
//
// sitegate-render: render a page-builder document to HTML.
//
//	sitegate-render page.json              # JSON document
//	sitegate-render page.yaml --forms conf/forms
//	cat page.json | sitegate-render -      # stdin, JSON
//
// YAML is chosen by the .yaml/.yml extension; anything else is JSON.
// Output is the body fragment the prerender pipeline embeds, one trailing
// newline included.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yanizio/sitegate/internal/document"
	"github.com/yanizio/sitegate/internal/form"
)

var formsDir string

var rootCmd = &cobra.Command{
	Use:   "sitegate-render [file|-]",
	Short: "render a page-builder document to static HTML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.OutOrStdout(), cmd.InOrStdin(), args[0])
	},
}

func init() {
	rootCmd.Flags().StringVar(&formsDir, "forms", "", "directory of shared form definitions")
}

func main() {
	cobra.CheckErr(rootCmd.Execute())
}

func run(out io.Writer, in io.Reader, src string) error {
	raw, err := readSource(in, src)
	if err != nil {
		return err
	}
	if isYAML(src) {
		if raw, err = yamlToJSON(raw); err != nil {
			return fmt.Errorf("%s: %w", src, err)
		}
	}

	doc, err := document.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}

	forms := form.NewRegistry()
	if formsDir != "" {
		if err := forms.LoadDir(formsDir); err != nil {
			return err
		}
	}

	_, err = io.WriteString(out, document.NewRenderer(forms).Render(doc))
	return err
}

func readSource(in io.Reader, src string) ([]byte, error) {
	if src == "-" {
		return io.ReadAll(in)
	}
	return os.ReadFile(src)
}

func isYAML(src string) bool {
	ext := strings.ToLower(filepath.Ext(src))
	return ext == ".yaml" || ext == ".yml"
}

// yamlToJSON re-encodes YAML so Parse sees one wire format.  yaml.v3
// decodes mappings into map[string]any, which encoding/json accepts.
func yamlToJSON(raw []byte) ([]byte, error) {
	var v any
	if err := yaml.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}
