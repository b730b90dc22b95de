// import_watch scans a drop directory for bulk transaction files (CSV,
// JSON, XLSX) and loads them for one user, with optional watch mode.
// Files already recorded in import_files are skipped, so re-running on
// the same directory is idempotent.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"finsight/models"
	"finsight/pkg/importer"
)

// Global DB handle for helper funcs
var db *gorm.DB

// global flags (parsed in main)
var (
	verbose bool
	dryRun  bool
)

// importedState caches the user's already-imported file names so the
// workers avoid a query per file.
type importedState struct {
	byName map[string]struct{}
	mu     sync.RWMutex
}

func newImportedState() *importedState {
	return &importedState{byName: make(map[string]struct{}, 1024)}
}

func (s *importedState) has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byName[name]
	return ok
}

func (s *importedState) put(name string) {
	s.mu.Lock()
	s.byName[name] = struct{}{}
	s.mu.Unlock()
}

func mustInitDBFromEnv() *gorm.DB {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatalf("DB_DSN must be set in environment to run this tool")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	return gdb
}

func main() {
	dirFlag := flag.String("dir", "imports", "directory to scan for transaction files")
	userID := flag.Uint("user-id", 0, "User ID to assign transactions to (if omitted attempts admin)")
	watch := flag.Bool("watch", false, "Watch directory for new files")
	workers := flag.Int("workers", 0, "Worker pool size (default NumCPU)")
	flag.BoolVar(&dryRun, "dry-run", false, "Parse and report without writing to the database")
	flag.BoolVar(&verbose, "verbose", false, "Verbose per-file logging")
	flag.Parse()

	if dryRun {
		log.Printf("Dry-run: scanning %s (no DB writes)", *dirFlag)
		files := listImportFiles(*dirFlag)
		log.Printf("Found %d candidate files", len(files))
		for _, f := range files {
			records, rowErrs, err := importer.ParseFile(filepath.Join(*dirFlag, f))
			if err != nil {
				log.Printf("SKIP %s: %v", f, err)
				continue
			}
			log.Printf("%s: %d valid rows, %d rejected", f, len(records), len(rowErrs))
		}
		return
	}

	db = mustInitDBFromEnv()
	user := resolveUser(*userID)
	state := preloadImported(user.ID)
	log.Printf("Preloaded: %d previously imported files", len(state.byName))

	files := listImportFiles(*dirFlag)
	log.Printf("Scanning %d files (workers=%d)", len(files), effectiveWorkers(*workers))
	runWorkerPool(*dirFlag, user, state, files, effectiveWorkers(*workers))

	if *watch {
		if err := watchDirectory(*dirFlag, user, state, effectiveWorkers(*workers)); err != nil {
			log.Fatalf("watch failed: %v", err)
		}
	}
}

func effectiveWorkers(w int) int {
	if w <= 0 {
		return runtime.NumCPU()
	}
	return w
}

func logV(format string, args ...any) {
	if verbose {
		log.Printf(format, args...)
	}
}

func preloadImported(userID uint) *importedState {
	state := newImportedState()
	var imports []models.ImportFile
	if err := db.Where("user_id = ?", userID).Find(&imports).Error; err == nil {
		for _, imp := range imports {
			state.byName[imp.FileName] = struct{}{}
		}
	}
	return state
}

// resolveUser finds the target user either by explicit id or by the admin username.
func resolveUser(id uint) models.User {
	var u models.User
	if id != 0 {
		if err := db.First(&u, id).Error; err != nil {
			log.Fatalf("failed to find user id %d: %v", id, err)
		}
		return u
	}
	if err := db.Where("username = ?", "admin").First(&u).Error; err != nil {
		log.Fatalf("no --user-id provided and admin user not found: %v", err)
	}
	return u
}

func listImportFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !importer.Supported(e.Name()) {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out
}

func watchDirectory(dir string, user models.User, state *importedState, workers int) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return err
	}
	log.Printf("Watching %s (debounced) ...", dir)

	fileCh := make(chan string, 256)
	go func() {
		// simple debounce map of pending files
		pending := map[string]time.Time{}
		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					close(fileCh)
					return
				}
				if ev.Op&fsnotify.Create == fsnotify.Create || ev.Op&fsnotify.Write == fsnotify.Write {
					name := filepath.Base(ev.Name)
					if !importer.Supported(name) {
						continue
					}
					pending[name] = time.Now()
				}
			case <-ticker.C:
				now := time.Now()
				for name, t := range pending {
					if now.Sub(t) > 300*time.Millisecond { // stable
						fileCh <- name
						delete(pending, name)
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					close(fileCh)
					return
				}
				log.Printf("watch error: %v", err)
			}
		}
	}()

	go runWorkerPool(dir, user, state, nil, workers, fileCh)
	// block forever (Ctrl+C to exit)
	select {}
}

// worker pool orchestrator
func runWorkerPool(dir string, user models.User, state *importedState, initial []string, workers int, extraCh ...<-chan string) {
	fileCh := make(chan string, 1024)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range fileCh {
				processSingleFile(dir, name, user, state)
			}
		}()
	}
	go func() {
		for _, f := range initial {
			fileCh <- f
		}
		for _, ch := range extraCh {
			go func(c <-chan string) {
				for n := range c {
					fileCh <- n
				}
			}(ch)
		}
		// if no extraCh (scan only) close when done
		if len(extraCh) == 0 {
			close(fileCh)
		}
	}()
	if len(extraCh) == 0 {
		wg.Wait()
	}
}

// processSingleFile parses and stores one file, recording the import so
// the same file name is never loaded twice for the user.
func processSingleFile(dir, name string, user models.User, state *importedState) {
	if state.has(name) {
		logV("SKIP already imported %s", name)
		return
	}

	records, rowErrs, err := importer.ParseFile(filepath.Join(dir, name))
	if err != nil {
		log.Printf("ERROR parse %s: %v", name, err)
		return
	}
	for _, re := range rowErrs {
		logV("REJECT %s %v", name, re)
	}
	if len(records) == 0 {
		log.Printf("SKIP %s: no valid rows", name)
		return
	}

	batchID := uuid.NewString()
	txs := make([]models.Transaction, len(records))
	total := decimal.Zero
	for i, rec := range records {
		txs[i] = models.Transaction{
			UserID:        user.ID,
			Date:          rec.Date,
			Type:          rec.Type,
			Amount:        rec.Amount,
			Category:      rec.Category,
			PaymentMethod: rec.PaymentMethod,
			Status:        rec.Status,
			DueDate:       rec.DueDate,
			Notes:         rec.Notes,
		}
		total = total.Add(rec.Amount)
	}
	imp := models.ImportFile{
		UserID:      user.ID,
		FileName:    name,
		Source:      models.ImportSourceWatch,
		BatchID:     batchID,
		RecordCount: len(txs),
		TotalAmount: total,
	}
	// claim the file name before the rows, in one transaction, so a
	// second worker racing on the same file aborts on the unique index
	// instead of double-inserting transactions.
	err = db.Transaction(func(dbtx *gorm.DB) error {
		if err := dbtx.Create(&imp).Error; err != nil {
			return err
		}
		return dbtx.Create(&txs).Error
	})
	if err != nil {
		if isUniqueConstraintError(err) { // race: another worker imported it
			logV("SKIP raced %s", name)
			state.put(name)
			return
		}
		log.Printf("ERROR store %s: %v", name, err)
		return
	}
	state.put(name)
	log.Printf("IMPORTED %s rows=%d batch=%s", name, len(txs), batchID)
}

// local copy (cannot rely on root package helper)
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "already exists")
}
