package main

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Generates bcrypt hashes for the seed accounts in the local dev database.
func main() {
	passwords := map[string]string{
		"admin@talentflow.local":    "TalentAdmin#2025",
		"reviewer@talentflow.local": "TalentReview#2025",
		"demo@talentflow.local":     "TalentDemo#2025",
	}

	for user, pass := range passwords {
		hash, err := bcrypt.GenerateFromPassword([]byte(pass), 10)
		if err != nil {
			fmt.Println("Error:", err)
			continue
		}
		fmt.Printf("User: %s\nPassword: %s\nHash: %s\n\n", user, pass, string(hash))
	}
}
