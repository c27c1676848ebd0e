package repository

import (
	"fmt"
	"time"

	"github.com/synaptrix4/skillatics-io/internal/models"
)

const SeedTopic = "General Aptitude"

type seedItem struct {
	prompt     string
	options    []string
	answer     string
	difficulty int
}

var seedItems = []seedItem{
	{"What is 20% of 500?", []string{"80", "100", "90", "70"}, "100", 1},
	{"What is the average of 4, 8, 5, 3 and 7?", []string{"5.4", "4.5", "5.6", "5.2"}, "5.4", 1},
	{"Simplify the ratio 8:24.", []string{"1:3", "3:1", "2:3", "1:2"}, "1:3", 1},
	{"An item bought for Rs.100 is sold for Rs.120. What is the profit percent?", []string{"20%", "10%", "15%", "30%"}, "20%", 1},
	{"What is the simple interest on Rs.1000 for 2 years at 5%?", []string{"100", "150", "200", "90"}, "100", 1},

	{"What percent of 180 is 45?", []string{"20%", "25%", "18%", "30%"}, "25%", 2},
	{"50 is what percent more than 40?", []string{"25%", "20%", "10%", "12%"}, "25%", 2},
	{"What is the simple interest on Rs.500 at 8% for 3 years?", []string{"120", "100", "90", "130"}, "120", 2},
	{"5 men finish a job in 36 days. How many days do 9 men take?", []string{"20", "22", "18", "25"}, "20", 2},

	{"A population grows 5% a year for 2 years. What is the overall increase?", []string{"10.25%", "10%", "12%", "9.5%"}, "10.25%", 3},
	{"If A:B = 2:3 and B:C = 4:5, what is A:B:C?", []string{"8:12:15", "2:4:5", "6:8:10", "4:6:8"}, "8:12:15", 3},
	{"70 is increased to 98. What is the percent increase?", []string{"28%", "35%", "40%", "45%"}, "40%", 3},
	{"An item is marked up 20% and sold at a 10% discount. What is the profit percent?", []string{"8%", "10%", "12%", "15%"}, "8%", 3},

	{"If 10% of M equals 25% of N, N is what percent of M?", []string{"25%", "40%", "50%", "60%"}, "40%", 4},
	{"A, B and C finish a job alone in 10, 15 and 30 days. How many days do they take together?", []string{"5", "6", "4", "7"}, "5", 4},
	{"A 150 m train runs at 54 km/h. How many seconds does it take to pass a pole?", []string{"10", "12", "9", "15"}, "10", 4},

	{"A salary is raised 30% and then cut 23%. What is the net effect?", []string{"0.1% increase", "7% increase", "0.1% decrease", "No change"}, "0.1% increase", 5},
	{"What is the compound interest on Rs.10000 at 10% a year for 2 years?", []string{"2000", "2100", "2200", "2010"}, "2100", 5},
	{"Two pipes fill a tank in 20 and 30 minutes and a third empties it in 15. With all open, how many minutes to fill it?", []string{"60", "45", "90", "30"}, "60", 5},
}

// SeedQuestions returns a small aptitude question set so that a store
// without any content can still run a full test.
func SeedQuestions() []models.Question {
	now := time.Now().UTC()
	out := make([]models.Question, len(seedItems))
	for i, item := range seedItems {
		out[i] = models.Question{
			ID:         fmt.Sprintf("seed-%02d", i+1),
			Topic:      SeedTopic,
			Difficulty: item.difficulty,
			Prompt:     item.prompt,
			Options:    append([]string(nil), item.options...),
			Answer:     item.answer,
			Source:     "seed",
			CreatedAt:  now,
		}
	}
	return out
}
