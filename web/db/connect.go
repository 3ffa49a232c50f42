package db

import (
	"os"

	"celsius/club/claim"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect() {
	var err error

	dsn := os.Getenv("DB")

	// TranslateError so duplicate key violations surface as
	// gorm.ErrDuplicatedKey instead of driver-specific errors
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		panic(err)
	}
}

func Sync() {
	err := DB.AutoMigrate(&User{}, &Product{}, &Order{}, &claim.Claim{})
	if err != nil {
		panic(err)
	}
}
