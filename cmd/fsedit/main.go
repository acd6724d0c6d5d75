package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"fsedit/internal/app"
	"fsedit/internal/config"
	"fsedit/internal/save"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an FSEditApp. The caller must defer a.Close().
// operation identifies the CLI command being run (e.g. "Apply", "Restore").
func newApp(operation string) (*app.FSEditApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewFSEditApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

var rootCmd = &cobra.Command{
	Use:   "fsedit",
	Short: "Farming Simulator 25 savegame editor",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["saves_dir"], defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Saves Dir: %s\n", cfg.SavesDir)
		fmt.Printf("Base Dir:  %s\n", cfg.BaseDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Saves Dir: %s\n", cfg.SavesDir)
		fmt.Printf("Base Dir:  %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:   %s\n", cfg.LogDir)
		fmt.Printf("History:   %s\n", cfg.History.Type)
		fmt.Printf("Keep:      %d backups\n", cfg.Backups.Keep)
		return nil
	},
}

// saves command
var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "Browse savegames",
}

var savesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List savegames",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ListSavegames")
		if err != nil {
			return err
		}
		defer a.Close()

		saves, err := a.Savegames()
		if err != nil {
			return err
		}

		if len(saves) == 0 {
			fmt.Println("No savegames found.")
			return nil
		}

		rows := make([][]string, 0, len(saves))
		for _, s := range saves {
			rows = append(rows, []string{
				s.Dir,
				s.Name,
				s.MapTitle,
				formatMoney(s.Money),
				formatHours(s.PlayTime),
			})
		}
		fmt.Println(renderTable(
			[]string{"Directory", "Name", "Map", "Money", "Play Time"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight},
		))
		return nil
	},
}

var savesShowCmd = &cobra.Command{
	Use:   "show SAVE",
	Short: "Show savegame details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ShowSavegame")
		if err != nil {
			return err
		}
		defer a.Close()

		detail, err := a.Savegame(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s (%s)\n", detail.Career.SavegameName, detail.Career.MapTitle)
		fmt.Printf("Money: %s  Play Time: %s\n\n", formatMoney(detail.Career.Money), formatHours(detail.Career.PlayTime))

		if len(detail.Farms) > 0 {
			rows := make([][]string, 0, len(detail.Farms))
			for _, f := range detail.Farms {
				rows = append(rows, []string{
					strconv.Itoa(f.FarmID), f.Name, formatMoney(f.Money), formatMoney(f.Loan),
				})
			}
			fmt.Println(renderTable(
				[]string{"Farm", "Name", "Money", "Loan"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignRight},
			))
		}

		if len(detail.Vehicles) > 0 {
			rows := make([][]string, 0, len(detail.Vehicles))
			for _, v := range detail.Vehicles {
				fills := make([]string, 0, len(v.FillUnits.Units))
				for _, u := range v.FillUnits.Units {
					fills = append(fills, fmt.Sprintf("%s %.0f", u.FillType, u.FillLevel))
				}
				rows = append(rows, []string{
					v.ID,
					v.Filename,
					fmt.Sprintf("%.1f", v.Age),
					formatMoney(v.Price),
					fmt.Sprintf("%.0f min", v.OperatingTime),
					strings.Join(fills, ", "),
				})
			}
			fmt.Println(renderTable(
				[]string{"ID", "Vehicle", "Age", "Price", "Operating", "Fill"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight, alignLeft},
			))
		}

		if len(detail.Sales) > 0 {
			rows := make([][]string, 0, len(detail.Sales))
			for i, s := range detail.Sales {
				rows = append(rows, []string{
					strconv.Itoa(i),
					s.XMLFilename,
					strconv.Itoa(s.Price),
					strconv.Itoa(s.TimeLeft),
				})
			}
			fmt.Println(renderTable(
				[]string{"#", "Item", "Price", "Time Left"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignRight},
			))
		}

		if len(detail.Fields) > 0 {
			rows := make([][]string, 0, len(detail.Fields))
			for _, f := range detail.Fields {
				rows = append(rows, []string{
					strconv.Itoa(f.ID), f.FruitType, strconv.Itoa(f.GrowthState), strconv.Itoa(f.WeedState),
				})
			}
			fmt.Println(renderTable(
				[]string{"Field", "Fruit", "Growth", "Weeds"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignRight},
			))
		}

		return nil
	},
}

// apply command
var applyCmd = &cobra.Command{
	Use:   "apply SAVE",
	Short: "Apply a change file to a savegame",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		changeFile, _ := cmd.Flags().GetString("file")
		if changeFile == "" {
			return fmt.Errorf("a change file is required (-f changes.toml)")
		}

		var changes save.Changes
		if _, err := toml.DecodeFile(changeFile, &changes); err != nil {
			return fmt.Errorf("reading change file: %w", err)
		}

		a, err := newApp("Apply")
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.Apply(args[0], &changes)
		if err != nil {
			return err
		}

		if res.BackupPath != "" {
			fmt.Printf("Backup: %s\n", res.BackupPath)
		}
		for _, f := range res.FilesModified {
			fmt.Printf("Modified: %s\n", f)
		}
		for _, e := range res.Errors {
			fmt.Printf("Error: %s\n", e)
		}
		if !res.Success {
			return fmt.Errorf("%d file(s) failed", len(res.Errors))
		}
		if len(res.FilesModified) == 0 {
			fmt.Println("No changes to apply.")
		}
		return nil
	},
}

// backup command
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage savegame backups",
}

var backupCreateCmd = &cobra.Command{
	Use:   "create SAVE",
	Short: "Create a backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("CreateBackup")
		if err != nil {
			return err
		}
		defer a.Close()

		info, err := a.CreateBackup(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Backup created: %s (%d bytes)\n", info.Path, info.Size)
		return nil
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list SAVE",
	Short: "List backups",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ListBackups")
		if err != nil {
			return err
		}
		defer a.Close()

		backups, err := a.Backups(args[0])
		if err != nil {
			return err
		}

		if len(backups) == 0 {
			fmt.Println("No backups found.")
			return nil
		}

		rows := make([][]string, 0, len(backups))
		for _, b := range backups {
			rows = append(rows, []string{
				b.Name,
				b.CreatedAt.Format("2006-01-02 15:04:05"),
				strconv.FormatInt(b.Size, 10),
			})
		}
		fmt.Println(renderTable(
			[]string{"Name", "Created", "Size"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight},
		))
		return nil
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore SAVE BACKUP",
	Short: "Restore a backup over the savegame",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Restore")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.RestoreBackup(args[0], args[1]); err != nil {
			return err
		}

		fmt.Printf("Restored %s from %s (a safety backup of the previous state was taken)\n", args[0], args[1])
		return nil
	},
}

var backupDeleteCmd = &cobra.Command{
	Use:   "delete SAVE BACKUP",
	Short: "Delete a backup",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("DeleteBackup")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.DeleteBackup(args[0], args[1]); err != nil {
			return err
		}

		fmt.Printf("Deleted backup %s\n", args[1])
		return nil
	},
}

var backupPruneCmd = &cobra.Command{
	Use:   "prune SAVE",
	Short: "Delete all but the newest backups",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("PruneBackups")
		if err != nil {
			return err
		}
		defer a.Close()

		removed, err := a.PruneBackups(args[0])
		if err != nil {
			return err
		}

		if len(removed) == 0 {
			fmt.Println("Nothing to prune.")
			return nil
		}
		for _, name := range removed {
			fmt.Printf("Removed %s\n", name)
		}
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View applied save transactions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("History")
		if err != nil {
			return err
		}
		defer a.Close()

		recs, err := a.History(limit)
		if err != nil {
			return err
		}

		if len(recs) == 0 {
			fmt.Println("No save transactions recorded.")
			return nil
		}

		rows := make([][]string, 0, len(recs))
		for _, r := range recs {
			rows = append(rows, []string{
				r.AppliedAt.Format("2006-01-02 15:04:05"),
				r.SaveDir,
				strings.Join(r.FilesModified, ", "),
				strconv.Itoa(r.ErrorCount),
				r.BackupPath,
			})
		}
		fmt.Println(renderTable(
			[]string{"Applied", "Save", "Files", "Errors", "Backup"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
		))
		return nil
	},
}

func formatMoney(v float64) string {
	return fmt.Sprintf("%.0f", v)
}

func formatHours(minutes float64) string {
	return fmt.Sprintf("%.1f h", minutes/60)
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// saves subcommands
	savesCmd.AddCommand(savesListCmd)
	savesCmd.AddCommand(savesShowCmd)

	// backup subcommands
	backupCmd.AddCommand(backupCreateCmd)
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupRestoreCmd)
	backupCmd.AddCommand(backupDeleteCmd)
	backupCmd.AddCommand(backupPruneCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(savesCmd)
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().StringP("file", "f", "", "TOML change file to apply")
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of transactions to show")
}
