package controllers

import (
	"time"

	"github.com/PraiseNight/models"
	"golang.org/x/crypto/bcrypt"
)

// Test fixture data for use in tests

// MockAdmin creates the choir director's admin account
func MockAdmin() models.AdminUser {
	return models.AdminUser{
		Admin_User_ID:   1,
		Username:        "director",
		Role:            models.RoleAdmin,
		Datetime_Create: time.Now(),
	}
}

// MockAdminWithPassword is MockAdmin with a bcrypt hash of "hallelujah"
func MockAdminWithPassword() models.AdminUser {
	admin := MockAdmin()
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("hallelujah"), bcrypt.MinCost)
	admin.Password = string(hashedPassword)
	return admin
}

// MockMember creates a read-only choir member account
func MockMember() models.AdminUser {
	return models.AdminUser{
		Admin_User_ID:   2,
		Username:        "alto1",
		Role:            models.RoleMember,
		Datetime_Create: time.Now(),
	}
}

// MockPage creates the PN30 praise night
func MockPage() models.PraiseNight {
	return models.PraiseNight{
		Page_ID:         30,
		Name:            "PN30",
		Date:            "2026-03-20",
		Location:        "Main Auditorium",
		Category:        models.PageCategoryUnassigned,
		Datetime_Create: time.Now(),
		Datetime_Update: time.Now(),
		Songs:           []models.PraiseNightSong{},
	}
}
