package domain

// ExportVersion is the document version written by the exporter.
const ExportVersion = "1.0.0"

// ExportDocument is a full snapshot of one store's data.
type ExportDocument struct {
	Store      StoreInfo        `json:"store"`
	Drugs      []Drug           `json:"drugs"`
	Sales      []Sale           `json:"sales"`
	Suppliers  []Supplier       `json:"suppliers"`
	OrderLists []OrderListEntry `json:"orderLists"`
	History    []HistoryEntry   `json:"history"`
	Metadata   ExportMetadata   `json:"metadata"`
}

type StoreInfo struct {
	Name            string `json:"name"`
	ExportDate      string `json:"exportDate"`
	Version         string `json:"version"`
	OriginalStoreID int64  `json:"originalStoreId"`
}

type ExportMetadata struct {
	TotalRecords int    `json:"totalRecords"`
	ExportedBy   string `json:"exportedBy"`
	AppVersion   string `json:"appVersion,omitempty"`
}

// CountRecords returns the number of entity records carried by the document.
func (d *ExportDocument) CountRecords() int {
	return len(d.Drugs) + len(d.Sales) + len(d.Suppliers) + len(d.OrderLists) + len(d.History)
}
