package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	Size        string          `json:"size"`
	Color       string          `json:"color"`
	Brand       string          `json:"brand,omitempty"`
	Material    string          `json:"material,omitempty"`
	Gender      string          `json:"gender"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	Active      bool            `json:"active"`
	CreatedAt   *Timestamp      `json:"createdAt,omitempty"`
}

// InStock reports whether at least one unit can be bought.
func (p Product) InStock() bool {
	return p.Active && p.Stock > 0
}

// ProductPage is one page of the catalog as returned by GET /products.
type ProductPage struct {
	Content       []Product `json:"content"`
	Page          int       `json:"page"`
	Size          int       `json:"size"`
	TotalElements int64     `json:"totalElements"`
	TotalPages    int       `json:"totalPages"`
	First         bool      `json:"first"`
	Last          bool      `json:"last"`
}

var (
	ProductCategories = []string{
		"CAMISETA", "CALCA", "BERMUDA", "SHORTS", "VESTIDO", "SAIA",
		"BLUSA", "JAQUETA", "CASACO", "TENIS", "SAPATO", "SANDALIA",
		"BONE", "CHAPEU", "BOLSA", "MOCHILA", "CARTEIRA", "CINTO",
	}
	ProductSizes = []string{
		"PP", "P", "M", "G", "GG", "XG", "XXG",
		"TAMANHO_34", "TAMANHO_36", "TAMANHO_38", "TAMANHO_40",
		"TAMANHO_42", "TAMANHO_44", "TAMANHO_46", "TAMANHO_48",
		"UNICO",
	}
	ProductColors = []string{
		"AZUL", "PRETO", "BRANCO", "VERMELHO", "VERDE", "AMARELO",
		"ROSA", "ROXO", "LARANJA", "MARROM", "CINZA", "BEGE",
		"NAVY", "VINHO", "CREME", "DOURADO", "PRATEADO", "MULTICOLOR",
	}
	ProductGenders = []string{"MASCULINO", "FEMININO", "UNISSEX"}
)
