package postgres

import "github.com/jhoicas/stockpilot-api/internal/domain/entity"

// Columnas comunes de clientes y proveedores (dirección aplanada).
const partyColumns = `id, name, email, phone, gst_number,
	address_street, address_city, address_state, address_pincode, address_country`

func addressArgs(a entity.Address) []any {
	return []any{a.Street, a.City, a.State, a.Pincode, a.Country}
}

func addressDest(a *entity.Address) []any {
	return []any{&a.Street, &a.City, &a.State, &a.Pincode, &a.Country}
}

func partySearch(w *whereBuilder, search string) {
	if search != "" {
		w.add(`(name ILIKE ? OR phone ILIKE ? OR email ILIKE ?)`, likePattern(search))
	}
}
