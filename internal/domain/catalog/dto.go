package catalog

type CompanySummary struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Address   string   `json:"address,omitempty"`
	HallNames []string `json:"hall_names"`
}

// CatalogResponse is the read view of one company's catalog.
type CatalogResponse struct {
	Company   Company   `json:"company"`
	HallNames []string  `json:"hall_names"`
	Records   []Company `json:"records"`
}

func NewCatalogResponse(c *Catalog) CatalogResponse {
	return CatalogResponse{
		Company:   c.Company(),
		HallNames: c.HallNames(),
		Records:   []Company{c.Record()},
	}
}
