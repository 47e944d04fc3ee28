package boot

import (
	"log"

	"portal/src/db"
	"portal/src/lib"
	"portal/src/models"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.Post{},
		&models.Page{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	seedPages(db)

	return db
}

// seedPages creates the informational pages students expect on first boot so
// fresh installs are not empty. Existing content is never overwritten.
func seedPages(db *gorm.DB) {
	defaults := []models.Page{
		{Slug: "housing", Title: "Housing", Body: "Residence hall information, room selection and move-in dates."},
		{Slug: "dining", Title: "Dining", Body: "Dining hall hours, meal plans and weekly menus."},
		{Slug: "billing", Title: "Billing", Body: "Tuition statements, payment plans and due dates."},
		{Slug: "tutoring", Title: "Tutoring", Body: "Free tutoring by subject, drop-in hours and appointments."},
	}
	for _, page := range defaults {
		var count int64
		db.Model(&models.Page{}).Where(&models.Page{Slug: page.Slug}).Count(&count)
		if count > 0 {
			continue
		}
		if err := db.Create(&page).Error; err != nil {
			log.Printf("Error seeding page %s: %s\n", page.Slug, err.Error())
		}
	}
}

func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	jobsWaitingInQueue := len(sched.Jobs())
	log.Println("Jobs in queue:", jobsWaitingInQueue)
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	err = sched.Shutdown()
	if err != nil {
		log.Println("An error has occurred while stopping Scheduler. Check logs for info")
		return
	}
}
