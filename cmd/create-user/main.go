// CLI tool to create a user with a bcrypt-hashed password and a profile row.
// Biometric prompts are optional; leave them blank to fill the profile in later.
// Usage: go run ./cmd/create-user
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Suhaas-Suran/HealthAI/healthmetrics"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// profileInput holds the optional answers to the biometric prompts.
type profileInput struct {
	Age           *int
	Sex           *string
	WeightKg      *float64
	HeightCm      *float64
	ActivityLevel *string
	Goal          *string
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, os.Getenv("DB_URL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	reader := bufio.NewReader(os.Stdin)

	username := prompt(reader, "Username: ")
	email := prompt(reader, "Email: ")
	password := prompt(reader, "Password: ")
	if username == "" || password == "" {
		fmt.Fprintln(os.Stderr, "Username and password are required")
		os.Exit(1)
	}

	in, err := readProfile(reader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error hashing password: %v\n", err)
		os.Exit(1)
	}

	authToken := uuid.New().String()

	tx, err := conn.Begin(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting transaction: %v\n", err)
		os.Exit(1)
	}
	defer tx.Rollback(ctx)

	var userID int
	err = tx.QueryRow(ctx,
		`INSERT INTO users (username, email, password, auth_token)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		username, email, string(hash), authToken,
	).Scan(&userID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating user: %v\n", err)
		os.Exit(1)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO profiles (user_id, age, sex, weight_kg, height_cm, activity_level, goal)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		userID, in.Age, in.Sex, in.WeightKg, in.HeightCm, in.ActivityLevel, in.Goal)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating profile: %v\n", err)
		os.Exit(1)
	}

	if err := tx.Commit(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error committing: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nUser created successfully!\n")
	fmt.Printf("  ID:         %d\n", userID)
	fmt.Printf("  Username:   %s\n", username)
	fmt.Printf("  Auth Token: %s\n", authToken)
	printTargets(os.Stdout, in)
}

func prompt(r *bufio.Reader, label string) string {
	fmt.Print(label)
	s, _ := r.ReadString('\n')
	return strings.TrimSpace(s)
}

// readProfile asks for each biometric field. Blank answers stay nil; a bad
// answer aborts so nothing half-valid lands in the database.
func readProfile(r *bufio.Reader) (profileInput, error) {
	var in profileInput

	if s := prompt(r, "Age (optional): "); s != "" {
		age, err := strconv.Atoi(s)
		if err != nil || age <= 0 {
			return in, fmt.Errorf("invalid age %q", s)
		}
		in.Age = &age
	}
	if s := prompt(r, "Sex [male/female/other] (optional): "); s != "" {
		sex, ok := healthmetrics.ParseSex(s)
		if !ok {
			return in, fmt.Errorf("invalid sex %q", s)
		}
		v := string(sex)
		in.Sex = &v
	}
	if s := prompt(r, "Weight kg (optional): "); s != "" {
		w, err := strconv.ParseFloat(s, 64)
		if err != nil || w <= 0 {
			return in, fmt.Errorf("invalid weight %q", s)
		}
		in.WeightKg = &w
	}
	if s := prompt(r, "Height cm (optional): "); s != "" {
		h, err := strconv.ParseFloat(s, 64)
		if err != nil || h <= 0 {
			return in, fmt.Errorf("invalid height %q", s)
		}
		in.HeightCm = &h
	}
	if s := prompt(r, "Activity level [sedentary/light/moderate/active/veryActive] (optional): "); s != "" {
		level, ok := healthmetrics.ParseActivityLevel(s)
		if !ok {
			return in, fmt.Errorf("invalid activity level %q", s)
		}
		v := string(level)
		in.ActivityLevel = &v
	}
	if s := prompt(r, "Goal [extremeLoss/loss/maintenance/gain] (optional): "); s != "" {
		goal, ok := healthmetrics.ParseGoal(s)
		if !ok {
			return in, fmt.Errorf("invalid goal %q", s)
		}
		v := string(goal)
		in.Goal = &v
	}
	return in, nil
}

// printTargets shows the calorie targets when the profile is complete enough
// to compute them.
func printTargets(w io.Writer, in profileInput) {
	if in.Age == nil || in.Sex == nil || in.WeightKg == nil || in.HeightCm == nil {
		return
	}
	p := healthmetrics.BiometricProfile{
		Age:      *in.Age,
		Sex:      healthmetrics.Sex(*in.Sex),
		WeightKg: *in.WeightKg,
		HeightCm: *in.HeightCm,
	}
	if in.ActivityLevel != nil {
		p.ActivityLevel = healthmetrics.ActivityLevel(*in.ActivityLevel)
	}
	if in.Goal != nil {
		p.Goal = healthmetrics.Goal(*in.Goal)
	}
	t, err := healthmetrics.ComputeTargets(p)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "  BMR:        %d kcal\n", t.BMR)
	fmt.Fprintf(w, "  TDEE:       %d kcal\n", t.TDEE)
	if t.Goal != "" {
		fmt.Fprintf(w, "  Target:     %d kcal (%s)\n", t.GoalCalories, t.Goal)
	}
}
