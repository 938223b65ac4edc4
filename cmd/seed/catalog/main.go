// Command catalog seeds a backend with the standard meal packages and,
// optionally, a demo menu for today. It signs in as an admin and goes
// through the public REST API, so it works against any environment.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mansoorceksport/mealturn/internal/backend"
	"github.com/mansoorceksport/mealturn/internal/config"
	"github.com/mansoorceksport/mealturn/internal/domain"
	"github.com/mansoorceksport/mealturn/internal/logger"
)

const demoMenu = `☆ Món mới
Gà chiên nước mắm
Cá basa kho tộ
▪︎ Món mỗi ngày
Thịt kho trứng
Canh chua cá lóc
Rau muống xào tỏi
★ Món đặc biệt
Sườn nướng mật ong`

var packages = []domain.MealPackage{
	{Name: "Gói 10 phần", Turns: 10, Price: 350000, ValidDays: 30, PackageType: domain.PackageTypeNormal},
	{Name: "Gói 20 phần", Turns: 20, Price: 680000, ValidDays: 45, PackageType: domain.PackageTypeNormal},
	{Name: "Gói 10 phần không cơm", Turns: 10, Price: 300000, ValidDays: 30, PackageType: domain.PackageTypeNoRice},
}

func main() {
	email := flag.String("email", os.Getenv("SEED_ADMIN_EMAIL"), "admin email")
	password := flag.String("password", os.Getenv("SEED_ADMIN_PASSWORD"), "admin password")
	withMenu := flag.Bool("menu", false, "also publish a demo menu for today")
	dryRun := flag.Bool("dry-run", false, "list what would be created without writing")
	flag.Parse()

	log := logger.New("development")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if *email == "" || *password == "" {
		log.Fatal().Msg("admin credentials are required, use -email/-password or SEED_ADMIN_EMAIL/SEED_ADMIN_PASSWORD")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client := backend.New(cfg.Backend.BaseURL, cfg.Backend.Timeout)
	auth, err := client.Login(ctx, domain.Credentials{Email: *email, Password: *password})
	if err != nil {
		log.Fatal().Err(err).Msg("admin login failed")
	}
	if !auth.User.IsAdmin() {
		log.Fatal().Str("email", *email).Msg("account is not an admin")
	}
	ctx = backend.WithToken(ctx, auth.Token)

	existing, err := client.ListMealPackages(ctx, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to list meal packages")
	}
	have := make(map[string]bool, len(existing))
	for _, p := range existing {
		have[p.Name] = true
	}

	for _, pkg := range packages {
		if have[pkg.Name] {
			fmt.Printf("Skipped package: %s (exists)\n", pkg.Name)
			continue
		}
		if *dryRun {
			fmt.Printf("Would create package: %s\n", pkg.Name)
			continue
		}
		pkg.IsActive = true
		created, err := client.CreateMealPackage(ctx, pkg)
		if err != nil {
			log.Error().Err(err).Str("name", pkg.Name).Msg("failed to create package")
			continue
		}
		fmt.Printf("Created package: %s (%s)\n", created.Name, created.ID)
	}

	if !*withMenu {
		return
	}

	today, err := client.TodayMenus(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load today's menus")
	}
	if len(today) > 0 {
		fmt.Printf("Skipped menu: %d already published today\n", len(today))
		return
	}
	if *dryRun {
		fmt.Println("Would publish demo menu for today")
		return
	}

	date := time.Now().In(cfg.Location()).Format("2006-01-02")
	menu, err := client.CreateMenu(ctx, domain.MenuDraft{
		RawContent: demoMenu,
		MenuDate:   date,
		BeginAt:    "10:00",
		EndAt:      "10:45",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to publish demo menu")
	}
	fmt.Printf("Published menu %s for %s with %d dishes\n", menu.Menu.ID, date, len(menu.MenuItems))
}
