package validation

// Common enum values - these MUST match DB CHECK constraints in the store package.
var (
	ValidUserRoles        = []string{"client", "admin"}
	ValidQuoteStatuses    = []string{"pending", "reviewed", "quoted", "accepted", "rejected"}
	ValidShipmentStatuses = []string{"processing", "in_transit", "customs", "delivered"}
	ValidShippingMethods  = []string{"sea", "air", "road"}
	ValidInvoiceStatuses  = []string{"unpaid", "paid", "overdue"}
	ValidDocumentTypes    = []string{
		"invoice", "packing_list", "bill_of_lading", "certificate_of_origin",
		"phytosanitary", "customs", "insurance", "other",
	}
)
