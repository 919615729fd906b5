package models

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/ruda-paints/internal/constants"
	"github.com/ruda-paints/internal/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// InitDefaultAdmin 库中没有管理员时创建一个超级管理员
func InitDefaultAdmin(db *gorm.DB, username, email, password string) error {
	var count int64
	if err := db.Model(&Admin{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	username = strings.TrimSpace(username)
	if username == "" {
		username = "admin"
	}
	generated := false
	if strings.TrimSpace(password) == "" {
		buf := make([]byte, 9)
		if _, err := rand.Read(buf); err != nil {
			return err
		}
		password = hex.EncodeToString(buf)
		generated = true
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := Admin{
		Username:     username,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Name:         "Administrator",
		PasswordHash: string(hash),
		Role:         constants.AdminRoleSuperAdmin,
		IsActive:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	if generated {
		logger.Warnw("default_admin_created_with_generated_password", "username", username, "password", password)
	} else {
		logger.Warnw("default_admin_created", "username", username, "password_hidden", true)
	}
	return nil
}
