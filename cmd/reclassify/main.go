// reclassify recalcula la clasificación ABC del catálogo fuera del ciclo de peticiones HTTP
// (por ejemplo desde un cron nocturno).
//
// Uso: go run ./cmd/reclassify [-empresa <uuid>]
// Sin -empresa recorre todas las empresas registradas.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/protrack/protrack-api/internal/application/catalog"
	"github.com/protrack/protrack-api/internal/infrastructure/postgres"
	"github.com/protrack/protrack-api/pkg/config"
	"github.com/protrack/protrack-api/pkg/logger"
)

func main() {
	companyID := flag.String("empresa", "", "ID de la empresa a reclasificar (vacío = todas)")
	timeout := flag.Duration("timeout", 5*time.Minute, "tiempo máximo de ejecución")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "reclassify"})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	r := catalog.NewReclassifier(postgres.NewProductRepository(pool), postgres.NewCompanyRepository(pool), log)

	if *companyID != "" {
		n, err := r.Reclassify(ctx, *companyID)
		if err != nil {
			log.Fatal().Err(err).Str("company_id", *companyID).Msg("reclasificación")
		}
		fmt.Printf("%s\t%d cambios\n", *companyID, n)
		return
	}

	result, err := r.ReclassifyAll(ctx)
	ids := make([]string, 0, len(result))
	for id := range result {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Printf("%s\t%d cambios\n", id, result[id])
	}
	if err != nil {
		log.Error().Err(err).Msg("al menos una empresa no se pudo reclasificar")
		os.Exit(1)
	}
}
