package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fsedit/internal/backup"
	"fsedit/internal/config"
	"fsedit/internal/history"
	"fsedit/internal/save"
)

// FSEditApp is the application layer between the CLI and the save service.
// It constructs all dependencies from config, exposes high-level operations
// that accept savegame names, and manages the ledger lifecycle on Close.
type FSEditApp struct {
	cfg     *config.Config
	backups *backup.Manager
	ledger  *history.Store
	service *save.Service
	logFile *os.File
}

// SavegameDetail is everything the show command displays for one savegame.
type SavegameDetail struct {
	Career   *save.CareerSummary
	Farms    []save.Farm
	Vehicles []save.Vehicle
	Sales    []save.SaleItem
	Fields   []save.Field
}

// backupAdapter narrows *backup.Manager to the interface the save service
// consumes: a path string, not the full Info.
type backupAdapter struct {
	m *backup.Manager
}

func (a backupAdapter) Create(saveDir string) (string, error) {
	info, err := a.m.Create(saveDir)
	if err != nil {
		return "", err
	}
	return info.Path, nil
}

// NewFSEditApp creates a fully wired FSEditApp from the given config.
// operation identifies the CLI command being run (e.g. "Apply", "Restore").
// The caller must call Close when done.
func NewFSEditApp(cfg *config.Config, operation string) (*FSEditApp, error) {
	opID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, opID, operation)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	backups := backup.NewManager(save.RealClock{})

	var ledger *history.Store
	var hist save.History
	switch cfg.History.Type {
	case "sqlite":
		ledger, err = history.Open(filepath.Join(cfg.History.DataDir, "history.db"))
	case "memory":
		ledger, err = history.Open(":memory:")
	case "off", "":
		// ledger stays nil, transactions are not recorded
	default:
		err = fmt.Errorf("unknown history type %q", cfg.History.Type)
	}
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("opening history ledger: %w", err)
	}
	if ledger != nil {
		hist = ledger
	}

	svc := save.NewService(backupAdapter{m: backups}, hist,
		&slogAdapter{l: logger}, save.RealClock{}, save.UUIDGenerator{})

	return &FSEditApp{
		cfg:     cfg,
		backups: backups,
		ledger:  ledger,
		service: svc,
		logFile: logFile,
	}, nil
}

// resolveSave maps a savegame name to its directory. Absolute paths are
// taken as-is so saves outside the configured directory stay reachable.
func (a *FSEditApp) resolveSave(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(a.cfg.SavesDir, name)
}

// Savegames lists the savegames under the configured saves directory.
func (a *FSEditApp) Savegames() ([]save.SavegameInfo, error) {
	return save.ListSavegames(a.cfg.SavesDir)
}

// Savegame reads the displayable state of one savegame. Files that are
// legitimately absent (sales.xml) come back empty rather than failing.
func (a *FSEditApp) Savegame(name string) (*SavegameDetail, error) {
	dir, err := save.ValidateSaveDir(a.resolveSave(name))
	if err != nil {
		return nil, err
	}

	career, err := save.ReadCareer(dir)
	if err != nil {
		return nil, err
	}
	detail := &SavegameDetail{Career: career}

	// The remaining documents are optional per map and mod set.
	if farms, err := save.ReadFarms(dir); err == nil {
		detail.Farms = farms
	}
	if vehicles, err := save.ReadVehicles(dir); err == nil {
		detail.Vehicles = vehicles
	}
	if sales, err := save.ReadSales(dir); err == nil {
		detail.Sales = sales
	}
	if fields, err := save.ReadFields(dir); err == nil {
		detail.Fields = fields
	}
	return detail, nil
}

// Apply runs one change bundle against the named savegame.
func (a *FSEditApp) Apply(name string, ch *save.Changes) (*save.Result, error) {
	return a.service.Apply(a.resolveSave(name), ch)
}

// CreateBackup takes a manual backup of the named savegame.
func (a *FSEditApp) CreateBackup(name string) (*backup.Info, error) {
	dir, err := save.ValidateSaveDir(a.resolveSave(name))
	if err != nil {
		return nil, err
	}
	return a.backups.Create(dir)
}

// Backups lists the backups of the named savegame, newest first.
func (a *FSEditApp) Backups(name string) ([]backup.Info, error) {
	return a.backups.List(a.resolveSave(name))
}

// RestoreBackup restores the named backup over the savegame. A safety
// backup of the current state is taken first.
func (a *FSEditApp) RestoreBackup(name, backupName string) error {
	dir, err := save.ValidateSaveDir(a.resolveSave(name))
	if err != nil {
		return err
	}
	return a.backups.Restore(dir, backupName)
}

// DeleteBackup removes one backup of the named savegame.
func (a *FSEditApp) DeleteBackup(name, backupName string) error {
	return a.backups.Delete(a.resolveSave(name), backupName)
}

// PruneBackups deletes all but the configured number of newest backups and
// returns the names of the removed ones.
func (a *FSEditApp) PruneBackups(name string) ([]string, error) {
	return a.backups.Prune(a.resolveSave(name), a.cfg.Backups.Keep)
}

// History returns the most recent save transactions, newest first.
// Returns an error when the ledger is disabled in config.
func (a *FSEditApp) History(limit int) ([]save.SaveRecord, error) {
	if a.ledger == nil {
		return nil, fmt.Errorf("history is disabled (history.type = %q)", a.cfg.History.Type)
	}
	return a.ledger.ListRecent(limit)
}

// Close releases the ledger and the log file.
func (a *FSEditApp) Close() error {
	var firstErr error
	if a.ledger != nil {
		if err := a.ledger.Close(); err != nil {
			firstErr = fmt.Errorf("closing history ledger: %w", err)
		}
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}
