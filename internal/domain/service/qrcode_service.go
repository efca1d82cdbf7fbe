package service

// QRCodeService defines the interface for QR code generation
type QRCodeService interface {
	// GenerateShareQR renders the given share link as a PNG QR code
	GenerateShareQR(link string) ([]byte, error)
}
