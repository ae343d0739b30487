package util

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Package-level default RNG used when callers pass a nil generator.
var defaultRNG = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))

var (
	// MaleFirstNames used when realistic patient names are requested.
	MaleFirstNames = []string{
		"James", "John", "Robert", "Michael", "William", "David", "Richard",
		"Thomas", "Charles", "Daniel", "Matthew", "Anthony", "Mark", "Steven",
		"Paul", "Andrew", "Kenneth", "Kevin", "Brian", "George", "Edward",
		"Jason", "Ryan", "Jacob", "Nicholas", "Eric", "Jonathan", "Stephen",
		"Scott", "Benjamin", "Samuel", "Gregory", "Patrick", "Alexander",
		"Nathan", "Henry", "Peter", "Noah", "Ethan", "Vincent", "Adrian",
	}

	// FemaleFirstNames used when realistic patient names are requested.
	FemaleFirstNames = []string{
		"Mary", "Patricia", "Jennifer", "Linda", "Barbara", "Elizabeth",
		"Susan", "Jessica", "Sarah", "Karen", "Lisa", "Nancy", "Margaret",
		"Sandra", "Ashley", "Kimberly", "Emily", "Michelle", "Amanda",
		"Melissa", "Stephanie", "Rebecca", "Laura", "Kathleen", "Amy",
		"Angela", "Anna", "Emma", "Nicole", "Samantha", "Katherine",
		"Christine", "Rachel", "Catherine", "Maria", "Heather", "Olivia",
		"Victoria", "Lauren", "Hannah", "Grace", "Sophia", "Charlotte",
	}

	// LastNames used when realistic patient names are requested.
	LastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller",
		"Davis", "Rodriguez", "Martinez", "Wilson", "Anderson", "Thomas",
		"Taylor", "Moore", "Jackson", "Martin", "Lee", "Thompson", "White",
		"Harris", "Clark", "Lewis", "Robinson", "Walker", "Young", "Allen",
		"King", "Wright", "Scott", "Hill", "Green", "Adams", "Nelson",
		"Baker", "Hall", "Campbell", "Mitchell", "Carter", "Roberts",
		"Phillips", "Evans", "Turner", "Parker", "Edwards", "Collins",
		"Stewart", "Morris", "Murphy", "Cook", "Rogers", "Morgan", "Bell",
	}
)

// GenerateTestPatientName returns the default synthetic patient name in
// DICOM PN format, e.g. "TEST^PATIENT^4821".
func GenerateTestPatientName(rng *rand.Rand) string {
	if rng == nil {
		rng = defaultRNG
	}
	return fmt.Sprintf("TEST^PATIENT^%04d", rng.IntN(9000)+1000)
}

// GeneratePatientName generates a realistic patient name based on sex.
//
// Sex should be "M" or "F"; anything else defaults to a female first name.
// If rng is nil, the shared default RNG is used.
// Returns the name in DICOM format: "LASTNAME^FIRSTNAME".
func GeneratePatientName(sex string, rng *rand.Rand) string {
	if rng == nil {
		rng = defaultRNG
	}

	var firstName string
	if sex == "M" {
		firstName = MaleFirstNames[rng.IntN(len(MaleFirstNames))]
	} else {
		firstName = FemaleFirstNames[rng.IntN(len(FemaleFirstNames))]
	}

	lastName := LastNames[rng.IntN(len(LastNames))]

	return lastName + "^" + firstName
}
