package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	generationdomain "github.com/wgesler/rentall-billing/internal/generation/domain"
	invoicedomain "github.com/wgesler/rentall-billing/internal/invoice/domain"
	ledgerdomain "github.com/wgesler/rentall-billing/internal/ledger/domain"
	ledgerservice "github.com/wgesler/rentall-billing/internal/ledger/service"
)

// ledgerLinePayload is the wire form of a display line.
type ledgerLinePayload struct {
	LedgerLineID      *snowflake.ID                 `json:"ledgerLineId,omitempty"`
	LineNumber        int                           `json:"lineNumber"`
	CostCodeID        string                        `json:"costCodeId"`
	CostCode          string                        `json:"costCode,omitempty"`
	TransactionType   string                        `json:"transactionType,omitempty"`
	TransactionTypeID *ledgerdomain.TransactionType `json:"transactionTypeId,omitempty"`
	Description       string                        `json:"description"`
	Amount            decimal.Decimal               `json:"amount"`
	IsNew             bool                          `json:"isNew"`
}

type totalsPayload struct {
	Invoiced decimal.Decimal `json:"invoicedAmount"`
	Paid     decimal.Decimal `json:"paidAmount"`
	Due      decimal.Decimal `json:"dueAmount"`
}

type saveInvoicePayload struct {
	InvoiceID      *snowflake.ID       `json:"invoiceId,omitempty"`
	OrganizationID snowflake.ID        `json:"organizationId"`
	OfficeID       snowflake.ID        `json:"officeId"`
	ReservationID  *snowflake.ID       `json:"reservationId,omitempty"`
	InvoiceCode    string              `json:"invoiceCode"`
	StartDate      time.Time           `json:"startDate"`
	EndDate        time.Time           `json:"endDate"`
	InvoiceDate    time.Time           `json:"invoiceDate"`
	DueDate        time.Time           `json:"dueDate"`
	Notes          string              `json:"notes"`
	IsActive       bool                `json:"isActive"`
	PaymentEntry   bool                `json:"paymentEntry"`
	Lines          []ledgerLinePayload `json:"ledgerLines"`

	CreditDestination *struct {
		ReservationID snowflake.ID  `json:"reservationId"`
		InvoiceID     *snowflake.ID `json:"invoiceId,omitempty"`
	} `json:"creditDestination,omitempty"`
}

func (s *Server) ListInvoices(c *gin.Context) {
	req := invoicedomain.ListInvoiceRequest{ActiveOnly: c.Query("activeOnly") == "true"}
	if raw := strings.TrimSpace(c.Query("officeId")); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			AbortWithError(c, newValidationError("officeId", "invalid_id", "invalid office id"))
			return
		}
		req.OfficeID = &id
	}
	if raw := strings.TrimSpace(c.Query("reservationId")); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			AbortWithError(c, newValidationError("reservationId", "invalid_id", "invalid reservation id"))
			return
		}
		req.ReservationID = &id
	}

	invoices, err := s.invoiceSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": invoices})
}

func (s *Server) GetInvoice(c *gin.Context) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	loaded, err := s.invoiceSvc.Load(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	catalog, err := s.costcodeSvc.CatalogForOffice(c.Request.Context(), loaded.Header.OfficeID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	session := s.sessions.Open(loaded.Header, catalog)
	session.Load(loaded.Lines, loaded.Notes)

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"header": loaded.Header,
		"notes":  session.Notes(),
		"lines":  toLinePayloads(session.Lines()),
		"totals": toTotalsPayload(session.Totals()),
		"action": session.Action(),
	}})
}

// SaveInvoice rebuilds an editing session server-side: the stored invoice
// provides the dirty baseline, the submitted payload the current state, and
// the session decides whether the activation is a create, modify, apply or
// no-op view.
func (s *Server) SaveInvoice(c *gin.Context) {
	var payload saveInvoicePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request"))
		return
	}
	if payload.OfficeID == 0 || payload.OrganizationID == 0 {
		AbortWithError(c, newValidationError("officeId", "required", "organization and office are required"))
		return
	}

	ctx := c.Request.Context()

	catalog, err := s.costcodeSvc.CatalogForOffice(ctx, payload.OfficeID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	header := ledgerdomain.InvoiceHeader{
		InvoiceID:      payload.InvoiceID,
		OrganizationID: payload.OrganizationID,
		OfficeID:       payload.OfficeID,
		ReservationID:  payload.ReservationID,
		InvoiceCode:    payload.InvoiceCode,
		StartDate:      payload.StartDate,
		EndDate:        payload.EndDate,
		InvoiceDate:    payload.InvoiceDate,
		DueDate:        payload.DueDate,
		IsActive:       payload.IsActive,
	}

	session := s.sessions.Open(header, catalog)
	if payload.InvoiceID != nil {
		loaded, err := s.invoiceSvc.Load(ctx, *payload.InvoiceID)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		session.Load(loaded.Lines, loaded.Notes)
	} else {
		session.Load(nil, "")
	}

	session.Edit(fromLinePayloads(payload.Lines), payload.Notes)
	if payload.PaymentEntry {
		session.MarkPaymentEntry()
	}
	if payload.CreditDestination != nil {
		session.RequestCreditTransfer(payload.CreditDestination.ReservationID, payload.CreditDestination.InvoiceID)
	}

	result, err := session.Submit(ctx)
	if err != nil && !errors.Is(err, ledgerservice.ErrCreditUnresolved) {
		AbortWithError(c, err)
		return
	}

	if s.metrics != nil {
		s.metrics.InvoiceSaves.WithLabelValues(string(result.Action)).Inc()
	}

	response := gin.H{
		"invoiceId": result.InvoiceID,
		"action":    result.Action,
		"totals":    toTotalsPayload(result.Totals),
		"lines":     toLinePayloads(session.Lines()),
	}
	if err != nil {
		// The invoice saved but the excess went nowhere. Report it apart
		// from a save failure: retrying "save" would be a no-op.
		response["creditUnresolved"] = true
		c.JSON(http.StatusConflict, gin.H{"data": response})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": response})
}

// GenerateLedgerLines runs the period-generation capability and returns the
// regenerated collection. The catalog gate lives here: generation never runs
// before the office's cost codes are resolved.
func (s *Server) GenerateLedgerLines(c *gin.Context) {
	var payload struct {
		OfficeID       snowflake.ID  `json:"officeId"`
		OrganizationID *snowflake.ID `json:"organizationId,omitempty"`
		ReservationID  *snowflake.ID `json:"reservationId,omitempty"`
		InvoiceCode    string        `json:"invoiceCode"`
		StartDate      time.Time     `json:"startDate"`
		EndDate        time.Time     `json:"endDate"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request"))
		return
	}
	if payload.OrganizationID == nil && payload.ReservationID == nil {
		AbortWithError(c, newValidationError("reservationId", "required", "a reservation or organization target is required"))
		return
	}

	ctx := c.Request.Context()

	catalog, err := s.costcodeSvc.CatalogForOffice(ctx, payload.OfficeID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	header := ledgerdomain.InvoiceHeader{
		OfficeID:      payload.OfficeID,
		ReservationID: payload.ReservationID,
		InvoiceCode:   payload.InvoiceCode,
		StartDate:     payload.StartDate,
		EndDate:       payload.EndDate,
	}
	if payload.OrganizationID != nil {
		header.OrganizationID = *payload.OrganizationID
	}
	session := s.sessions.Open(header, catalog)

	req := generationdomain.Request{
		InvoiceCode:    payload.InvoiceCode,
		OrganizationID: payload.OrganizationID,
		ReservationID:  payload.ReservationID,
		StartDate:      payload.StartDate,
		EndDate:        payload.EndDate,
	}
	if err := s.consumer.Run(ctx, req, session, catalog); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"lines":  toLinePayloads(session.Lines()),
		"totals": toTotalsPayload(session.Totals()),
	}})
}

func (s *Server) DeleteInvoice(c *gin.Context) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}
	if err := s.invoiceSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func toLinePayloads(lines []ledgerdomain.LedgerLine) []ledgerLinePayload {
	out := make([]ledgerLinePayload, 0, len(lines))
	for _, line := range lines {
		out = append(out, ledgerLinePayload{
			LedgerLineID:      line.LedgerLineID,
			LineNumber:        line.LineNumber,
			CostCodeID:        line.CostCodeID,
			CostCode:          line.CostCode,
			TransactionType:   line.TransactionType,
			TransactionTypeID: line.TransactionTypeID,
			Description:       line.Description,
			Amount:            line.Amount,
			IsNew:             line.IsNew,
		})
	}
	return out
}

func fromLinePayloads(payloads []ledgerLinePayload) []ledgerdomain.LedgerLine {
	out := make([]ledgerdomain.LedgerLine, 0, len(payloads))
	for _, p := range payloads {
		out = append(out, ledgerdomain.LedgerLine{
			LedgerLineID:      p.LedgerLineID,
			LineNumber:        p.LineNumber,
			CostCodeID:        p.CostCodeID,
			CostCode:          p.CostCode,
			TransactionType:   p.TransactionType,
			TransactionTypeID: p.TransactionTypeID,
			Description:       p.Description,
			Amount:            p.Amount,
			IsNew:             p.IsNew,
		})
	}
	return out
}

func toTotalsPayload(totals ledgerdomain.Totals) totalsPayload {
	return totalsPayload{Invoiced: totals.Invoiced, Paid: totals.Paid, Due: totals.Due}
}
