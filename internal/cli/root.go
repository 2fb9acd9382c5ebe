// Package cli implements cmsctl, the command line companion of the console:
// pull a collection schema to YAML, review the diff of an edited file and
// apply it, and browse entries.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	cmsconsole "github.com/kailas-cloud/cmsconsole/pkg/sdk"
)

// Environment variables read as flag defaults, from the process or a .env file.
const (
	EnvAPIURL     = "CMS_API_URL"
	EnvToken      = "CMS_TOKEN"
	EnvStorageURL = "CMS_STORAGE_URL"
)

var errMissingAPIURL = errors.New("backend URL not set (use --api-url or " + EnvAPIURL + ")")

type globalFlags struct {
	apiURL     string
	token      string
	storageURL string
	project    string
	collection string
}

// app holds what every command shares.
type app struct {
	flags globalFlags
	out   io.Writer
	// newClient is replaced in tests.
	newClient func(f globalFlags, out io.Writer) (*cmsconsole.Client, error)
}

// NewRootCommand builds the cmsctl command tree writing to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	a := &app{out: out, newClient: defaultClient}

	root := &cobra.Command{
		Use:   "cmsctl",
		Short: "Manage headless CMS schemas and entries",
		Long: `cmsctl edits collection schemas as files and browses entries.

Examples:

  cmsctl schema pull -p blog -c posts -o posts.yaml
  cmsctl schema diff -p blog -c posts -f posts.yaml
  cmsctl schema apply -p blog -c posts -f posts.yaml
  cmsctl entries list -p blog -c posts --search hello
`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.apiURL, "api-url", os.Getenv(EnvAPIURL), "CMS backend API base URL")
	pf.StringVar(&a.flags.token, "token", os.Getenv(EnvToken), "bearer token")
	pf.StringVar(&a.flags.storageURL, "storage-url", os.Getenv(EnvStorageURL), "public file storage base URL")
	pf.StringVarP(&a.flags.project, "project", "p", "", "project id")
	pf.StringVarP(&a.flags.collection, "collection", "c", "", "collection id")

	root.AddCommand(a.schemaCommand(), a.entriesCommand(), versionCommand())
	return root
}

// Execute runs cmsctl and exits non-zero on failure.
func Execute() {
	// A missing .env is fine: flags and the environment still apply.
	_ = godotenv.Load()

	if err := NewRootCommand(os.Stdout).Execute(); err != nil {
		red.Fprintf(os.Stderr, "✗ %v\n", err)
		os.Exit(1)
	}
}

func defaultClient(f globalFlags, out io.Writer) (*cmsconsole.Client, error) {
	if f.apiURL == "" {
		return nil, errMissingAPIURL
	}
	c, err := cmsconsole.New(
		cmsconsole.WithBackend(f.apiURL),
		cmsconsole.WithToken(f.token),
		cmsconsole.WithPublicStorageURL(f.storageURL),
		cmsconsole.WithNotices(func(n cmsconsole.Notice) { printNotice(out, n) }),
	)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return c, nil
}

// requireScope checks that --project and --collection are set.
func (a *app) requireScope() error {
	if a.flags.project == "" || a.flags.collection == "" {
		return errors.New("--project and --collection are required")
	}
	return nil
}
