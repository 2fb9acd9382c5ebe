package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	cmsconsole "github.com/kailas-cloud/cmsconsole/pkg/sdk"
)

func (a *app) schemaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Pull, diff and apply collection schemas",
	}
	cmd.AddCommand(a.schemaPullCommand(), a.schemaDiffCommand(), a.schemaApplyCommand())
	return cmd
}

func (a *app) schemaPullCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Write the current schema as YAML",
		Long: `Write the current schema of a collection as a YAML list of fields.

Keep the field ids: they tell diff and apply which fields already exist.
Fields added without an id are created.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			schema, err := a.schema()
			if err != nil {
				return err
			}
			fields, err := schema.Pull(cmd.Context())
			if err != nil {
				return err
			}
			data, err := encodeFields(fields)
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = a.out.Write(data)
				return err //nolint:wrapcheck // stdout
			}
			if err := os.WriteFile(filepath.Clean(output), data, 0o600); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			green.Fprintf(a.out, "✓ Wrote %d fields to %s\n", len(fields), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func (a *app) schemaDiffCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Show what applying a schema file would change",
		RunE: func(cmd *cobra.Command, _ []string) error {
			schema, edited, err := a.schemaAndFile(file)
			if err != nil {
				return err
			}
			current, err := schema.Pull(cmd.Context())
			if err != nil {
				return err
			}
			cs, err := schema.Diff(cmd.Context(), edited)
			if err != nil {
				return err
			}
			printChangeSet(a.out, cs, current)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "schema.yaml", "schema file")
	return cmd
}

func (a *app) schemaApplyCommand() *cobra.Command {
	var file string
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Submit the difference between a schema file and the collection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			schema, edited, err := a.schemaAndFile(file)
			if err != nil {
				return err
			}
			current, err := schema.Pull(cmd.Context())
			if err != nil {
				return err
			}
			if dryRun {
				cs, err := schema.Diff(cmd.Context(), edited)
				if err != nil {
					return err
				}
				printChangeSet(a.out, cs, current)
				return nil
			}
			// Apply reports its outcome through the client's notices.
			cs, err := schema.Apply(cmd.Context(), edited)
			if err != nil {
				return err
			}
			printChangeSet(a.out, cs, current)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "schema.yaml", "schema file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "only show the change-set")
	return cmd
}

type schemaClient interface {
	Pull(ctx context.Context) ([]cmsconsole.Field, error)
	Diff(ctx context.Context, edited []cmsconsole.Field) (cmsconsole.ChangeSet, error)
	Apply(ctx context.Context, edited []cmsconsole.Field) (cmsconsole.ChangeSet, error)
}

func (a *app) schema() (schemaClient, error) {
	if err := a.requireScope(); err != nil {
		return nil, err
	}
	c, err := a.newClient(a.flags, a.out)
	if err != nil {
		return nil, err
	}
	return c.Schema(a.flags.project, a.flags.collection), nil
}

func (a *app) schemaAndFile(path string) (schemaClient, []cmsconsole.Field, error) {
	edited, err := loadFields(path)
	if err != nil {
		return nil, nil, err
	}
	schema, err := a.schema()
	if err != nil {
		return nil, nil, err
	}
	return schema, edited, nil
}

func encodeFields(fields []cmsconsole.Field) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fields); err != nil {
		return nil, fmt.Errorf("encode schema: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode schema: %w", err)
	}
	return buf.Bytes(), nil
}

func loadFields(path string) ([]cmsconsole.Field, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	var fields []cmsconsole.Field
	if err := yaml.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	assignFieldIDs(fields)
	return fields, nil
}

// assignFieldIDs gives fields added by hand a local id, like the editor does.
func assignFieldIDs(fields []cmsconsole.Field) {
	for i := range fields {
		if fields[i].ID == "" {
			fields[i].ID = cmsconsole.NewFieldID()
		}
		assignFieldIDs(fields[i].NestedFields)
	}
}
