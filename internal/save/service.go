package save

import (
	"time"

	"github.com/gofrs/flock"
)

// BackupManager creates a full backup of a save directory and returns the
// backup's path.
type BackupManager interface {
	Create(saveDir string) (string, error)
}

// SaveRecord is one applied transaction as recorded in the history ledger.
type SaveRecord struct {
	ID            string
	SaveDir       string
	BackupPath    string
	FilesModified []string
	ErrorCount    int
	AppliedAt     time.Time
}

// History persists applied transactions. A nil History disables the ledger.
type History interface {
	RecordSave(rec SaveRecord) error
}

// Service is the orchestration layer that applies change bundles to
// savegames with a mandatory backup in front of every write.
type Service struct {
	backups BackupManager
	history History
	logger  Logger
	clock   Clock
	idgen   IDGenerator
}

// NewService creates a Service with the provided dependencies.
func NewService(backups BackupManager, history History, logger Logger, clock Clock, idgen IDGenerator) *Service {
	return &Service{
		backups: backups,
		history: history,
		logger:  logger,
		clock:   clock,
		idgen:   idgen,
	}
}

// Apply runs one save transaction against the savegame at dir.
//
// An empty bundle returns success immediately, with no backup and no writes:
// a no-op is distinguishable from a committed empty change by its empty
// BackupPath. Otherwise a backup is taken first; if that fails the whole
// transaction aborts before any file is touched. Each sub-domain writer then
// runs independently: a writer's failure is captured as a structured error
// in the Result and the remaining writers still run, so one broken file does
// not discard unrelated edits. Success is true iff no writer failed.
//
// Money is deliberately written to two documents (career summary and farm
// ledger). The two writes are not transactionally linked; if the second
// fails the Result reports both the successful file and the error.
func (s *Service) Apply(dir string, ch *Changes) (*Result, error) {
	dir, err := ValidateSaveDir(dir)
	if err != nil {
		return nil, err
	}

	if ch.Empty() {
		s.logger.Debug("no changes to apply", "save", dir)
		return &Result{Success: true}, nil
	}

	// One editor at a time per savegame. The lock file sits next to the
	// save directory so it is not swept into backups.
	lock := flock.New(dir + ".lock")
	if err := lock.Lock(); err != nil {
		return nil, NewError(CodeIO, err, "message", err.Error())
	}
	defer lock.Unlock()

	backupPath, err := s.backups.Create(dir)
	if err != nil {
		return nil, NewError(CodeBackup, err, "message", err.Error())
	}
	s.logger.Info("backup created", "save", dir, "backup", backupPath)

	res := &Result{BackupPath: backupPath}
	modified := func(file string) {
		for _, f := range res.FilesModified {
			if f == file {
				return
			}
		}
		res.FilesModified = append(res.FilesModified, file)
	}
	failed := func(file string, err error) {
		s.logger.Error("writer failed", "save", dir, "file", file, "error", err)
		res.Errors = append(res.Errors,
			NewError(CodeFileWrite, err, "file", file, "details", err.Error()))
	}

	if ch.Finance != nil {
		if ch.Finance.Money != nil {
			money := *ch.Finance.Money
			if err := applyCareerMoney(dir, money); err != nil {
				failed("careerSavegame.xml", err)
			} else {
				modified("careerSavegame.xml")
			}
			if err := applyFarmFinances(dir, 1, &money, nil); err != nil {
				failed("farms.xml", err)
			} else {
				modified("farms.xml")
			}
		}
		if ch.Finance.Loan != nil {
			if err := applyFarmFinances(dir, 1, nil, ch.Finance.Loan); err != nil {
				failed("farms.xml", err)
			} else {
				modified("farms.xml")
			}
		}
	}

	if len(ch.Vehicles) > 0 {
		if err := applyVehicleChanges(dir, ch.Vehicles); err != nil {
			failed("vehicles.xml", err)
		} else {
			modified("vehicles.xml")
		}
	}

	if len(ch.Sales) > 0 {
		if err := applySaleChanges(dir, ch.Sales); err != nil {
			failed("sales.xml", err)
		} else {
			modified("sales.xml")
		}
	}

	if len(ch.SaleAdditions) > 0 {
		if err := applySaleAdditions(dir, ch.SaleAdditions); err != nil {
			failed("sales.xml", err)
		} else {
			modified("sales.xml")
		}
	}

	if len(ch.Fields) > 0 {
		if err := applyFieldChanges(dir, ch.Fields); err != nil {
			failed("fields.xml", err)
		} else {
			modified("fields.xml")
		}
	}

	if len(ch.Farmlands) > 0 {
		if err := applyFarmlandChanges(dir, ch.Farmlands); err != nil {
			failed("farmland.xml", err)
		} else {
			modified("farmland.xml")
		}
	}

	if len(ch.Placeables) > 0 {
		if err := applyPlaceableChanges(dir, ch.Placeables); err != nil {
			failed("placeables.xml", err)
		} else {
			modified("placeables.xml")
		}
	}

	if len(ch.Missions) > 0 {
		if err := applyMissionChanges(dir, ch.Missions); err != nil {
			failed("missions.xml", err)
		} else {
			modified("missions.xml")
		}
	}

	if len(ch.Collectibles) > 0 {
		if err := applyCollectibleChanges(dir, ch.Collectibles); err != nil {
			failed("collectibles.xml", err)
		} else {
			modified("collectibles.xml")
		}
	}

	if ch.ContractSettings != nil {
		if err := applyContractSettings(dir, ch.ContractSettings); err != nil {
			failed("r_contracts.xml", err)
		} else {
			modified("r_contracts.xml")
		}
	}

	if ch.Environment != nil {
		if err := applyEnvironmentChanges(dir, ch.Environment); err != nil {
			failed("environment.xml", err)
		} else {
			modified("environment.xml")
		}
	}

	if ch.Economy != nil {
		// Additions without an explicit uniqueId get a generated one.
		for i := range ch.Economy.GreatDemandAdditions {
			if ch.Economy.GreatDemandAdditions[i].UniqueID == "" {
				ch.Economy.GreatDemandAdditions[i].UniqueID = s.idgen.New()
			}
		}
		if err := applyEconomyChanges(dir, ch.Economy); err != nil {
			failed("economy.xml", err)
		} else {
			modified("economy.xml")
		}
	}

	res.Success = len(res.Errors) == 0

	if s.history != nil {
		rec := SaveRecord{
			ID:            s.idgen.New(),
			SaveDir:       dir,
			BackupPath:    backupPath,
			FilesModified: res.FilesModified,
			ErrorCount:    len(res.Errors),
			AppliedAt:     s.clock.Now(),
		}
		if err := s.history.RecordSave(rec); err != nil {
			s.logger.Warn("recording save history failed", "error", err)
		}
	}

	s.logger.Info("changes applied",
		"save", dir,
		"files", len(res.FilesModified),
		"errors", len(res.Errors))
	return res, nil
}
