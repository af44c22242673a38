package db

import (
	"database/sql"
	"fmt"
	"shelf/internal/model"
)

var seedCatalog = []struct {
	category string
	names    []string
	base     int64
}{
	{"ROUPAS", []string{"Camiseta Básica", "Calça Jeans", "Jaqueta Corta-Vento", "Moletom Canguru", "Bermuda Sarja", "Camisa Social"}, 5990},
	{"CALCADOS", []string{"Tênis Runner", "Sandália Couro", "Bota Coturno", "Chinelo Slide"}, 8990},
	{"ACESSORIOS", []string{"Boné Aba Reta", "Mochila Urbana", "Cinto Couro", "Óculos de Sol", "Carteira Slim"}, 3990},
	{"ELETRONICOS", []string{"Fone Bluetooth", "Carregador Turbo", "Caixa de Som", "Smartwatch"}, 12990},
}

// SeedProducts inserts count demo products cycling through the seed
// catalog. Later rounds get a numeric suffix so names stay distinct.
func SeedProducts(db *sql.DB, count int) error {
	if count <= 0 {
		return nil
	}

	var all []model.NewProduct
	for round := 0; len(all) < count; round++ {
		for _, group := range seedCatalog {
			for i, name := range group.names {
				if len(all) == count {
					break
				}
				if round > 0 {
					name = fmt.Sprintf("%s %d", name, round+1)
				}
				state := model.StateActive
				if (i+round)%7 == 6 {
					state = model.StateInactive
				}
				all = append(all, model.NewProduct{
					Name:       name,
					Category:   group.category,
					PriceCents: group.base + int64(i*1000+round*250),
					State:      state,
				})
			}
		}
	}

	return InsertProducts(db, all)
}
