// seed crea el usuario administrador y carga el catálogo de productos desde un CSV.
//
// Uso: go run ./cmd/seed -csv productos.csv [-latin1] [-user admin -password secreto]
//
// Formato del CSV (con encabezado, separador ; o ,): codigo;nombre;descripcion;precio;stock
// Los productos cuyo código ya existe se omiten.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/facturacion-api/internal/application/auth"
	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/application/usecase"
	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/infrastructure/postgres"
	"github.com/jhoicas/facturacion-api/pkg/config"
	"github.com/jhoicas/facturacion-api/pkg/logger"
)

func main() {
	csvPath := flag.String("csv", "", "ruta del CSV de productos (opcional)")
	latin1 := flag.Bool("latin1", false, "el CSV está en ISO-8859-1 (exportado desde Excel)")
	username := flag.String("user", "admin", "usuario administrador")
	password := flag.String("password", os.Getenv("SEED_ADMIN_PASSWORD"), "contraseña del administrador")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	if *password != "" {
		authUC := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{Secret: cfg.JWT.Secret})
		_, err := authUC.RegisterUser(ctx, dto.RegisterRequest{Username: *username, Password: *password, Name: "Administrador"})
		switch {
		case errors.Is(err, domain.ErrConflict):
			log.Info().Str("username", *username).Msg("usuario ya existe, se omite")
		case err != nil:
			log.Fatal().Err(err).Msg("crear usuario")
		default:
			log.Info().Str("username", *username).Msg("usuario creado")
		}
	}

	if *csvPath == "" {
		return
	}
	f, err := os.Open(*csvPath)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir CSV")
	}
	defer f.Close()

	products, err := parseProducts(f, *latin1)
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV")
	}

	productUC := usecase.NewProductUseCase(postgres.NewProductRepository(pool), cfg.Billing.LowStockThreshold)
	var created, skipped int
	for _, p := range products {
		_, err := productUC.Create(ctx, p)
		switch {
		case errors.Is(err, domain.ErrConflict):
			skipped++
		case err != nil:
			log.Warn().Err(err).Str("code", p.Code).Msg("producto rechazado")
			skipped++
		default:
			created++
		}
	}
	log.Info().Int("created", created).Int("skipped", skipped).Msg("catálogo cargado")
}
