package domain

import ledgerdomain "github.com/wgesler/rentall-billing/internal/ledger/domain"

// Catalog is the resolved cost-code lookup for one office. Built once, then
// shared read-only across the session's lookups.
type Catalog struct {
	byID  map[string]ledgerdomain.CostCode
	codes []ledgerdomain.CostCode
}

func NewCatalog(codes []CostCode) *Catalog {
	catalog := &Catalog{byID: make(map[string]ledgerdomain.CostCode, len(codes))}
	for _, code := range codes {
		resolved := ledgerdomain.CostCode{
			ID:                code.ID,
			Code:              code.Code,
			Description:       code.Description,
			TransactionTypeID: code.TransactionTypeID,
		}
		catalog.byID[code.ID] = resolved
		catalog.codes = append(catalog.codes, resolved)
	}
	return catalog
}

// Resolve implements ledgerdomain.CostCodeResolver.
func (c *Catalog) Resolve(costCodeID string) (ledgerdomain.CostCode, bool) {
	code, ok := c.byID[costCodeID]
	return code, ok
}

// All returns the catalog entries in load order.
func (c *Catalog) All() []ledgerdomain.CostCode { return c.codes }

// Len reports how many codes the catalog holds.
func (c *Catalog) Len() int { return len(c.byID) }
