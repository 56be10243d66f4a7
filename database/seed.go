package database

import (
	"fmt"

	"hogwarts-artifacts/internal/domain/artifacts"
	"hogwarts-artifacts/internal/domain/users"
	"hogwarts-artifacts/internal/domain/wizards"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const imageURL = "https://hogwartsartifactsonline.blob.core.windows.net/artifact-image-container/placeholder.jpg"

// Seed loads the demo data set unless artifacts already exist.
func Seed(db *gorm.DB, bcryptCost int) error {
	var count int64
	if err := db.Model(&artifacts.Artifact{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count artifacts: %w", err)
	}
	if count > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		albus := wizards.Wizard{Name: "Albus Dumbledore"}
		harry := wizards.Wizard{Name: "Harry Potter"}
		neville := wizards.Wizard{Name: "Neville Longbottom"}
		for _, w := range []*wizards.Wizard{&albus, &harry, &neville} {
			if err := tx.Create(w).Error; err != nil {
				return fmt.Errorf("seed wizard %s: %w", w.Name, err)
			}
		}

		list := []artifacts.Artifact{
			{ID: "1250808601744904191", Name: "Deluminator", OwnerID: &albus.ID,
				Description: "A Deluminator is a device invented by Albus Dumbledore that resembles a cigarette lighter. It is used to remove or absorb (as well as return) the light from any light source to provide cover to the user."},
			{ID: "1250808601744904192", Name: "Invisibility Cloak", OwnerID: &harry.ID,
				Description: "An invisibility cloak is used to make the wearer invisible."},
			{ID: "1250808601744904193", Name: "Elder Wand", OwnerID: &albus.ID,
				Description: "The Elder Wand, known throughout history as the Deathstick or the Wand of Destiny, is an extremely powerful wand made of elder wood with a core of Thestral tail hair."},
			{ID: "1250808601744904194", Name: "The Marauder's Map", OwnerID: &harry.ID,
				Description: "A magical map of Hogwarts created by Remus Lupin, Peter Pettigrew, Sirius Black, and James Potter while they were students at Hogwarts."},
			{ID: "1250808601744904195", Name: "The Sword Of Gryffindor", OwnerID: &neville.ID,
				Description: "A goblin-made sword adorned with large rubies on the pommel. It was once owned by Godric Gryffindor, one of the medieval founders of Hogwarts."},
			{ID: "1250808601744904196", Name: "Resurrection Stone",
				Description: "The Resurrection Stone allows the holder to bring back deceased loved ones, in a semi-physical form, and communicate with them."},
		}
		for i := range list {
			list[i].ImageURL = imageURL
			if err := tx.Create(&list[i]).Error; err != nil {
				return fmt.Errorf("seed artifact %s: %w", list[i].Name, err)
			}
		}

		accounts := []struct {
			username, password, roles string
			enabled                   bool
		}{
			{"john", "123456", "admin user", true},
			{"eric", "654321", "user", true},
			{"tom", "qwerty", "user", false},
		}
		for _, a := range accounts {
			hashed, err := bcrypt.GenerateFromPassword([]byte(a.password), bcryptCost)
			if err != nil {
				return fmt.Errorf("hash password for %s: %w", a.username, err)
			}
			u := users.User{Username: a.username, Password: string(hashed), Enabled: a.enabled, Roles: a.roles}
			if err := tx.Create(&u).Error; err != nil {
				return fmt.Errorf("seed user %s: %w", a.username, err)
			}
		}
		return nil
	})
}
