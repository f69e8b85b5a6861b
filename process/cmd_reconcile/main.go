// Command reconcile sweeps transactions orphaned by the non-transactional
// user-removal cascade: income and expense rows whose owning user no longer
// exists. Dry-run by default; pass -yes to actually delete.
package main

import (
	"flag"
	"log"
	"os"

	"fintrack/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	dryRun := flag.Bool("dry-run", true, "only report orphaned rows")
	yes := flag.Bool("yes", false, "confirm deletion (disables dry-run)")
	flag.Parse()
	if *yes {
		*dryRun = false
	}

	_ = godotenv.Load()
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN must be set to run reconcile")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open db: %v", err)
	}

	sweep(db, "incomes", &models.Income{}, *dryRun)
	sweep(db, "expenses", &models.Expense{}, *dryRun)
}

func sweep(db *gorm.DB, table string, model any, dryRun bool) {
	orphanCond := "user_id NOT IN (SELECT id FROM users)"
	var count int64
	if err := db.Model(model).Where(orphanCond).Count(&count).Error; err != nil {
		log.Printf("count orphans in %s: %v", table, err)
		return
	}
	if count == 0 {
		log.Printf("%s: no orphaned rows", table)
		return
	}
	if dryRun {
		log.Printf("%s: %d orphaned rows (dry-run, pass -yes to delete)", table, count)
		return
	}
	res := db.Where(orphanCond).Delete(model)
	if res.Error != nil {
		log.Printf("delete orphans in %s: %v", table, res.Error)
		return
	}
	log.Printf("%s: deleted %d orphaned rows", table, res.RowsAffected)
}
