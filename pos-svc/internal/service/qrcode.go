package service

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

type QRGenerator interface {
	Generate(orderID int) ([]byte, error)
}

const defaultQRSize = 256

// ReceiptQRGenerator renders a PNG pointing at the printable receipt of an order.
type ReceiptQRGenerator struct {
	BaseURL string
	Size    int
}

func (g ReceiptQRGenerator) ReceiptURL(orderID int) string {
	return fmt.Sprintf("%s/receipt.html?order_id=%d", strings.TrimRight(g.BaseURL, "/"), orderID)
}

func (g ReceiptQRGenerator) Generate(orderID int) ([]byte, error) {
	if orderID <= 0 {
		return nil, fmt.Errorf("qr code: invalid order id %d", orderID)
	}
	size := g.Size
	if size <= 0 {
		size = defaultQRSize
	}
	return qrcode.Encode(g.ReceiptURL(orderID), qrcode.Medium, size)
}
