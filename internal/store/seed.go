// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kasaserena/serena-go/internal/auth"
	"github.com/kasaserena/serena-go/internal/model"
)

// Seed populates the materials/distributors catalog if it is empty. Safe to
// call on every startup.
func Seed(ctx context.Context, st Storage, log *slog.Logger) error {
	existing, err := st.ListMaterials(ctx)
	if err != nil {
		return fmt.Errorf("checking catalog: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	distributors := []CreateDistributorParams{
		{
			Name:        "Maderas del Caribe",
			Location:    "Santo Domingo",
			Description: "Maderas preciosas y tratadas para interiores y exteriores.",
			ContactInfo: `{"phone":"809-555-0134","email":"ventas@maderasdelcaribe.do"}`,
		},
		{
			Name:        "Aluminios Modernos SRL",
			Location:    "Santiago de los Caballeros",
			Description: "Perfiles de aluminio y cristal templado.",
			ContactInfo: `{"phone":"809-555-0178","email":"info@aluminiosmodernos.do"}`,
		},
		{
			Name:        "Herrajes y Acabados KS",
			Location:    "Punta Cana",
			Description: "Herrajes importados, pinturas y acabados.",
			ContactInfo: `{"phone":"809-555-0221","email":"contacto@herrajesks.do"}`,
		},
	}

	distributorIDs := make([]int64, 0, len(distributors))
	for _, p := range distributors {
		d, err := st.CreateDistributor(ctx, p)
		if err != nil {
			return fmt.Errorf("seeding distributor %q: %w", p.Name, err)
		}
		distributorIDs = append(distributorIDs, d.ID)
	}

	materials := []CreateMaterialParams{
		{Name: "Caoba Dominicana", Category: "madera", Type: "madera", Color: "marrón rojizo",
			Finish: "natural", Unit: "pie²", Price: 18.50, DistributorID: distributorIDs[0]},
		{Name: "Roble Americano", Category: "madera", Type: "madera", Color: "miel",
			Finish: "mate", Unit: "pie²", Price: 14.75, DistributorID: distributorIDs[0]},
		{Name: "Pino Tratado", Category: "madera", Type: "madera", Color: "claro",
			Finish: "sellado", Unit: "pie²", Price: 6.25, DistributorID: distributorIDs[0]},
		{Name: "Aluminio Anodizado Negro", Category: "metal", Type: "aluminio", Color: "negro",
			Finish: "anodizado", Unit: "metro", Price: 22.00, DistributorID: distributorIDs[1]},
		{Name: "Aluminio Natural", Category: "metal", Type: "aluminio", Color: "plata",
			Finish: "cepillado", Unit: "metro", Price: 17.40, DistributorID: distributorIDs[1]},
		{Name: "Cristal Templado 10mm", Category: "cristal", Type: "vidrio", Color: "transparente",
			Finish: "pulido", Unit: "metro²", Price: 45.00, DistributorID: distributorIDs[1]},
		{Name: "Cristal Esmerilado", Category: "cristal", Type: "vidrio", Color: "esmerilado",
			Finish: "mate", Unit: "metro²", Price: 52.00, Availability: model.MaterialLimited,
			DistributorID: distributorIDs[1]},
		{Name: "Cuarzo Blanco", Category: "superficie", Type: "piedra", Color: "blanco",
			Finish: "pulido", Unit: "metro²", Price: 120.00, DistributorID: distributorIDs[2]},
		{Name: "Granito Gris Perla", Category: "superficie", Type: "piedra", Color: "gris",
			Finish: "pulido", Unit: "metro²", Price: 95.00, DistributorID: distributorIDs[2]},
		{Name: "Herraje Soft-Close", Category: "herraje", Type: "herraje", Color: "níquel",
			Finish: "satinado", Unit: "unidad", Price: 8.90, DistributorID: distributorIDs[2]},
	}

	for _, p := range materials {
		if _, err := st.CreateMaterial(ctx, p); err != nil {
			return fmt.Errorf("seeding material %q: %w", p.Name, err)
		}
	}

	log.Info("catalog seeded",
		"distributors", len(distributors),
		"materials", len(materials))
	return nil
}

// SeedAdmin ensures an admin account exists with the given credentials.
// Does nothing if the username is already taken.
func SeedAdmin(ctx context.Context, st Storage, email, password string, log *slog.Logger) error {
	const username = "admin"

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}
	_, err = st.CreateUser(ctx, CreateUserParams{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FullName:     "Administrador",
		Role:         model.RoleAdmin,
	})
	if errors.Is(err, ErrConflict) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}
	log.Info("admin account created", "username", username, "email", email)
	return nil
}
