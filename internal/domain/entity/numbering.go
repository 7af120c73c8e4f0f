package entity

import "fmt"

// Prefijos de numeración de documentos.
const (
	PrefixInvoice  = "INV"
	PrefixDispatch = "DSP"
	PrefixBill     = "B"
	PrefixReceipt  = "R"
)

// DocumentNo número visible de un documento: <PREFIJO>-000001.
func DocumentNo(prefix string, seq int64) string {
	return fmt.Sprintf("%s-%06d", prefix, seq)
}

// FranchiseDocumentNo número de un documento de franquicia: <CODIGO>-<PREFIJO>-000001.
func FranchiseDocumentNo(franchiseCode, prefix string, seq int64) string {
	return DocumentNo(franchiseCode+"-"+prefix, seq)
}
