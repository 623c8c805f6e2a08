package user

import (
	"fmt"
	"math/rand"
	"time"

	userRepo "mayhouse/database/repository/user"
)

var (
	adventureWords  = []string{"Explorer", "Wanderer", "Voyager", "Nomad", "Trekker", "Rover", "Drifter", "Pathfinder"}
	experienceWords = []string{"Foodie", "Storyteller", "Artisan", "Curator", "Seeker", "Dreamer", "Maker", "Taster"}
	locationWords   = []string{"Bandra", "Colaba", "Juhu", "Dadar", "Worli", "Andheri", "Fort", "Marine"}
)

// GenerateUsername picks a free Word### name, falling back to time- and random-based names.
func GenerateUsername(repo userRepo.UserRepository) string {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	pools := [][]string{adventureWords, experienceWords, locationWords}

	for attempt := 0; attempt < 10; attempt++ {
		pool := pools[rng.Intn(len(pools))]
		candidate := fmt.Sprintf("%s%d", pool[rng.Intn(len(pool))], 100+rng.Intn(900))
		existing, err := repo.GetByUsername(candidate)
		if err == nil && existing == nil {
			return candidate
		}
	}

	candidate := fmt.Sprintf("Traveler%d", time.Now().Unix()%10000)
	if existing, err := repo.GetByUsername(candidate); err == nil && existing == nil {
		return candidate
	}
	return fmt.Sprintf("User%04d", rng.Intn(10000))
}
