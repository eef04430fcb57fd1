package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/stewardpro-api/internal/domain/entity"
	"github.com/sangkips/stewardpro-api/internal/domain/repository"
	"github.com/sangkips/stewardpro-api/pkg/apperror"
	"github.com/sangkips/stewardpro-api/pkg/printer"
	"github.com/shopspring/decimal"
)

// PrinterService prints contribution receipts on a thermal printer.
type PrinterService struct {
	printer          printer.Printer
	contributionRepo repository.ContributionRepository
	churchRepo       repository.ChurchRepository
	printerType      string
	width            int
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	contributionRepo repository.ContributionRepository,
	churchRepo repository.ChurchRepository,
	printerType string,
	width int,
) *PrinterService {
	if width <= 0 {
		width = 32
	}
	return &PrinterService{
		printer:          p,
		contributionRepo: contributionRepo,
		churchRepo:       churchRepo,
		printerType:      printerType,
		width:            width,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != "none" && s.printerType != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.printerType,
	}
}

// TestPrint sends a sample receipt. The receipt is returned even when
// printing fails so the caller can show it.
func (s *PrinterService) TestPrint() (*printer.Receipt, error) {
	receipt := &printer.Receipt{
		ChurchName: "PRINTER TEST",
		ReceiptNo:  "RCP-TEST-0001",
		Date:       today().Format("02/01/2006"),
		MemberName: "Test Member",
		Lines: []printer.ReceiptLine{
			{Label: "Tithe", Amount: "10.00"},
			{Label: "Offering", Amount: "5.00"},
		},
		Total: "15.00",
	}

	if err := s.printer.Print(printer.FormatReceipt(receipt, s.width)); err != nil {
		return receipt, fmt.Errorf("test print failed: %w", err)
	}
	return receipt, nil
}

// PrintContributionReceipt prints the receipt of a submitted contribution.
func (s *PrinterService) PrintContributionReceipt(ctx context.Context, id uuid.UUID) (*printer.Receipt, error) {
	c, err := s.contributionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperror.NewNotFoundError("Tithes and offerings record")
	}
	if !c.IsSubmitted() {
		return nil, apperror.NewConflictError("Only submitted records have a receipt")
	}

	church, err := s.churchRepo.GetByID(ctx, c.TenantID)
	if err != nil {
		return nil, err
	}

	receipt := BuildReceipt(c, church)
	if err := s.printer.Print(printer.FormatReceipt(receipt, s.width)); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("receipt", c.ReceiptNumber).Msg("printer error")
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}
	return receipt, nil
}

// BuildReceipt lays out a contribution as a printable receipt. Zero lines
// are left out.
func BuildReceipt(c *entity.Contribution, church *entity.Church) *printer.Receipt {
	r := &printer.Receipt{
		ReceiptNo:   c.ReceiptNumber,
		Date:        entity.Time(c.Date).Format("02/01/2006"),
		MemberName:  "Anonymous",
		PaymentMode: string(c.PaymentMode),
		Total:       formatMoney(c.TotalAmount),
	}
	if church != nil {
		r.ChurchName = church.Name
		r.ChurchAddress = church.Address
	}
	if c.Member != nil {
		r.MemberName = c.Member.FullName()
	}

	for _, l := range []struct {
		label  string
		amount decimal.Decimal
	}{
		{"Tithe", c.TitheAmount},
		{"Offering", c.OfferingAmount},
		{"Campmeeting", c.CampmeetingOffering},
		{"Church building", c.ChurchBuildingOffering},
	} {
		if l.amount.IsZero() {
			continue
		}
		r.Lines = append(r.Lines, printer.ReceiptLine{Label: l.label, Amount: formatMoney(l.amount)})
	}
	return r
}

func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}
