// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/filedump/internal/prompt"
	"github.com/pdiddy/filedump/internal/registry"
	"github.com/pdiddy/filedump/pkg/types"
)

var svdCmd = &cobra.Command{
	Use:   "svd [NAME]",
	Short: "List saved projects, or run one by name",
	Long: `Svd manages saved projects: named combinations of source, destination,
filter, and placement mode, kept in a YAML registry file. Without arguments
it lists all saved projects; with a name it runs that project's extraction.

The registry file is rewritten atomically on every change, but it is not
locked: two filedump processes changing it at the same time may race.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSvd,
}

// openRegistry creates a registry over the configured YAML file.
func openRegistry() *registry.Registry {
	return registry.New(registry.NewFileStorage(registryConfig()))
}

func runSvd(cmd *cobra.Command, args []string) error {
	reg := openRegistry()

	// Run-by-name mode.
	if len(args) == 1 {
		p, err := reg.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Running project %q: %s -> %s\n", p.Name, p.Source, p.Destination)
		return runExtraction(p.Request(), p.Name)
	}

	names, err := reg.List()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Printf("No saved projects (registry: %s).\n", registryConfig().Path)
		return nil
	}

	fmt.Println("Saved projects:")
	for _, name := range names {
		p, err := reg.Get(name)
		if err != nil {
			return err
		}
		line := fmt.Sprintf("  %s: %s -> %s", p.Name, p.Source, p.Destination)
		if p.Filter != "" {
			line += fmt.Sprintf(" (filter: %s)", p.Filter)
		}
		if p.Flatten {
			line += " (flat)"
		}
		fmt.Println(line)
	}
	return nil
}

// --- save subcommand ---

var svdSaveCmd = &cobra.Command{
	Use:   "save NAME SOURCE DESTINATION",
	Short: "Save an extraction as a named project",
	Args:  cobra.ExactArgs(3),
	RunE:  runSvdSave,
}

func runSvdSave(cmd *cobra.Command, args []string) error {
	filter, _ := cmd.Flags().GetString("filter")
	flat, _ := cmd.Flags().GetBool("flat")

	p := types.Project{
		Name:        prompt.NormalizeName(args[0]),
		Source:      args[1],
		Destination: args[2],
		Filter:      filter,
		Flatten:     flat,
	}
	if err := openRegistry().Save(p); err != nil {
		return err
	}
	fmt.Printf("Project %q saved.\n", p.Name)
	return nil
}

// --- create subcommand ---

var svdCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a project step by step",
	RunE:  runSvdCreate,
}

func runSvdCreate(cmd *cobra.Command, args []string) error {
	cwd, _ := os.Getwd()
	session := prompt.NewSession(cmd.InOrStdin(), cmd.OutOrStdout())

	p, err := session.CollectProject(cwd)
	if err != nil {
		return err
	}
	if err := openRegistry().Save(p); err != nil {
		return err
	}
	fmt.Printf("Project %q created. Run it with: filedump svd %s\n", p.Name, p.Name)
	return nil
}

// --- edit subcommand ---

var svdEditCmd = &cobra.Command{
	Use:   "edit NAME",
	Short: "Edit a saved project interactively",
	Long: `Edit shows the stored fields of a project and asks for new values.
Blank answers keep the current value; answering "none" clears the filter.`,
	Args: cobra.ExactArgs(1),
	RunE: runSvdEdit,
}

func runSvdEdit(cmd *cobra.Command, args []string) error {
	reg := openRegistry()

	current, err := reg.Get(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Editing project %q (blank keeps the current value):\n", current.Name)
	session := prompt.NewSession(cmd.InOrStdin(), cmd.OutOrStdout())

	updated, err := reg.Edit(current.Name, session.CollectUpdate(current))
	if err != nil {
		return err
	}
	fmt.Printf("Project %q updated: %s -> %s\n", updated.Name, updated.Source, updated.Destination)
	return nil
}

// --- delete subcommand ---

var svdDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a saved project",
	Args:  cobra.ExactArgs(1),
	RunE:  runSvdDelete,
}

func runSvdDelete(cmd *cobra.Command, args []string) error {
	if err := openRegistry().Delete(args[0]); err != nil {
		return err
	}
	fmt.Printf("Project %q deleted.\n", args[0])
	return nil
}

func init() {
	svdSaveCmd.Flags().String("filter", "", "basename glob pattern to store with the project")
	svdSaveCmd.Flags().Bool("flat", false, "store the project with flat placement")

	svdCmd.AddCommand(svdSaveCmd)
	svdCmd.AddCommand(svdCreateCmd)
	svdCmd.AddCommand(svdEditCmd)
	svdCmd.AddCommand(svdDeleteCmd)

	rootCmd.AddCommand(svdCmd)
}
