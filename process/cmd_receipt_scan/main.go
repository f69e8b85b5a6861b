// Command receipt_scan attaches receipt images from a drop directory to their
// expenses. Files are named <expense-id>.<ext> (an optional suffix after "-"
// is ignored, e.g. 42-coffee.jpg). Each file is OCRed and the suggested
// amount is compared against the stored one; mismatches are logged, never
// written back. With -watch the directory is monitored for new files.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"fintrack/models"
	"fintrack/pkg/ocr"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

var db *gorm.DB

func main() {
	dir := flag.String("dir", "uploads/receipts", "directory to scan for receipt images")
	watch := flag.Bool("watch", false, "watch directory for new files")
	workers := flag.Int("workers", 0, "worker pool size (default NumCPU)")
	flag.Parse()

	_ = godotenv.Load()
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN must be set in environment")
	}
	var err error
	db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	n := *workers
	if n <= 0 {
		n = runtime.NumCPU()
	}

	files := listImageFiles(*dir)
	log.Printf("found %d candidate files in %s", len(files), *dir)
	runPool(n, *dir, files)

	if *watch {
		watchDir(*dir)
	}
}

func listImageFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Fatalf("read dir %s: %v", dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			out = append(out, e.Name())
		}
	}
	return out
}

func runPool(workers int, dir string, files []string) {
	jobs := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range jobs {
				processFile(dir, name)
			}
		}()
	}
	for _, f := range files {
		jobs <- f
	}
	close(jobs)
	wg.Wait()
}

// expenseIDFromName parses "<id>.<ext>" or "<id>-suffix.<ext>".
func expenseIDFromName(name string) (uint, bool) {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if i := strings.IndexByte(stem, '-'); i > 0 {
		stem = stem[:i]
	}
	id, err := strconv.ParseUint(stem, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func processFile(dir, name string) {
	id, ok := expenseIDFromName(name)
	if !ok {
		log.Printf("skipping %s: no expense id in filename", name)
		return
	}
	var expense models.Expense
	if err := db.First(&expense, id).Error; err != nil {
		log.Printf("no expense %d for %s: %v", id, name, err)
		return
	}

	if expense.ReceiptPath == "" {
		publicURL := "/uploads/receipts/" + name
		if err := db.Model(&models.Expense{}).Where("id = ?", expense.ID).
			Update("receipt_path", publicURL).Error; err != nil {
			log.Printf("attach receipt to expense %d: %v", expense.ID, err)
			return
		}
		log.Printf("attached %s to expense %d", name, expense.ID)
	}

	amount, conf, matched, err := ocr.SuggestAmount(filepath.Join(dir, name))
	if err != nil {
		log.Printf("ocr %s: %v", name, err)
		return
	}
	if !amount.Equal(expense.Amount) {
		log.Printf("amount mismatch on expense %d: stored=%s ocr=%s (conf=%.2f, matched=%q)",
			expense.ID, expense.Amount, amount, conf, matched)
	}
}

func watchDir(dir string) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Fatalf("watcher: %v", err)
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		log.Fatalf("watch %s: %v", dir, err)
	}
	log.Printf("watching %s for new receipts", dir)
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if ev.Op&fsnotify.Create == fsnotify.Create {
				name := filepath.Base(ev.Name)
				if !imageExts[strings.ToLower(filepath.Ext(name))] {
					continue
				}
				// give the writer a moment to finish the file
				time.Sleep(500 * time.Millisecond)
				processFile(dir, name)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("watch error: %v", err)
		}
	}
}
