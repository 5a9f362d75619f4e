package migration

import (
	"log"

	"gorm.io/gorm"

	"github.com/lingualink/api/domain/model"
	"github.com/lingualink/api/infrastructure/persistence/database"
)

func Up1() {
	database := database.GetDb()
	createTables(database)
}

func createTables(database *gorm.DB) {
	tables := []any{}

	tables = addNewTable(database, model.AuditLog{}, tables)

	if len(tables) == 0 {
		return
	}

	err := database.Migrator().CreateTable(tables...)
	if err != nil {
		log.Printf("Error migrating: %v\n", err)
	}
	log.Println("Tables Created")
}

func addNewTable(database *gorm.DB, model any, tables []any) []any {
	if !database.Migrator().HasTable(model) {
		tables = append(tables, model)
	}
	return tables
}
