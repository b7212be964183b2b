// Package terms holds the bilingual trade-term reference data and the
// text generators that turn structured term selections into the
// sentences printed on quotation documents.
package terms

// Language selects which locale the generated texts use. The product
// ships with Turkish as the primary language and English as the
// secondary one; the values match what the persistence layer stores.
type Language string

const (
	Turkish Language = "turkish"
	English Language = "english"
)

// bilingual is a label pair keyed by language.
type bilingual struct {
	TR string
	EN string
}

func (b bilingual) in(lang Language) string {
	if lang == English {
		return b.EN
	}
	return b.TR
}

// Incoterm codes offered in the shipping-term dropdown, in display order.
var IncotermCodes = []string{"EXW", "FCA", "FOB", "CIF", "CPT", "DAP", "DDP"}

var incotermLabels = map[string]bilingual{
	"EXW": {TR: "Üretildiği Tesisten Teslim", EN: "Ex Works"},
	"FCA": {TR: "Taşıyıcıya Teslim", EN: "Free Carrier"},
	"FOB": {TR: "Gemide Teslim", EN: "Free On Board"},
	"CIF": {TR: "Navlun ve Sigorta Dahil", EN: "Cost, Insurance & Freight"},
	"CPT": {TR: "Taşıma Ücreti Ödenmiş Olarak", EN: "Carriage Paid To"},
	"DAP": {TR: "Belirlenen Yerde Teslim", EN: "Delivered At Place"},
	"DDP": {TR: "Gümrük Vergileri Ödenmiş Teslim", EN: "Delivered Duty Paid"},
}

var incotermDescriptions = map[string]bilingual{
	"EXW": {
		TR: "Ürünler satıcının tesisinde hazır edilir. Yükleme, taşıma, sigorta ve lojistik organizasyon alıcı sorumluluğundadır.",
		EN: "Goods are made available at the seller's premises. Loading, transportation, insurance and logistics are under the buyer's responsibility.",
	},
	"FCA": {
		TR: "Satıcı, ürünleri belirlenen yerde taşıyıcıya teslim eder. Ana taşıma, sigorta ve ithalat işlemleri alıcı tarafından organize edilir.",
		EN: "Seller delivers the goods to the carrier at the named place. Main carriage, insurance and import arrangements are handled by the buyer.",
	},
	"FOB": {
		TR: "Satıcı, ürünleri gemiye yükleyene kadar işlemleri yürütür. Yükleme sonrası sorumluluk alıcıya geçer.",
		EN: "Seller handles the process until the goods are loaded on board. Responsibilities transfer to the buyer after loading.",
	},
	"CIF": {
		TR: "Satıcı navlun ve sigortayı karşılar. Yükleme sonrası taşıma süreci alıcı adına devam eder.",
		EN: "Seller covers cost, insurance and freight. Transportation continues on behalf of the buyer after loading.",
	},
	"CPT": {
		TR: "Satıcı taşıma ücretini öder. Ürünler taşıyıcıya teslim edildikten sonra süreç alıcı adına ilerler.",
		EN: "Seller pays the carriage. After delivery to the carrier, the process continues on behalf of the buyer.",
	},
	"DAP": {
		TR: "Satıcı ürünleri belirlenen varış noktasına kadar teslim eder. İthalat vergileri ve gümrük işlemleri alıcıya aittir.",
		EN: "Seller delivers the goods to the named destination. Import duties and customs clearance belong to the buyer.",
	},
	"DDP": {
		TR: "Satıcı tüm taşıma, sigorta ve ithalat süreçlerini üstlenir. Ürünler alıcının belirlenen adresine teslim edilir.",
		EN: "Seller handles all transportation, insurance and import processes. Goods are delivered to the buyer's named address.",
	},
}

// Freight payment codes. These share the shipping-term field with the
// Incoterm codes but live in a disjoint code space.
var FreightCodes = []string{"AO", "GO"}

var freightLabels = map[string]bilingual{
	"AO": {TR: "A.O — Alıcı Ödemeli", EN: "A.O — Freight Collect (Buyer Pays)"},
	"GO": {TR: "G.O — Gönderici Ödemeli", EN: "G.O — Freight Prepaid (Seller Pays)"},
}

var freightDescriptions = map[string]bilingual{
	"AO": {TR: "Nakliye ücreti alıcı tarafından ödenir.", EN: "Freight cost is paid by the buyer."},
	"GO": {TR: "Nakliye ücreti satıcı tarafından ödenir.", EN: "Freight cost is paid by the seller."},
}

// Delivery-term option identifiers.
const (
	DeliveryStandard          = "standard"
	DeliveryPartialAllowed    = "partial_allowed"
	DeliveryPartialNotAllowed = "partial_not_allowed"
	DeliveryStandardPacking   = "standard_packing"
	DeliveryBuyerWarehouse    = "buyer_warehouse"
	DeliverySellerWarehouse   = "demart_warehouse"
	DeliveryCustom            = "custom"
)

// DeliveryTermIDs lists the selectable delivery-term options in display order.
var DeliveryTermIDs = []string{
	DeliveryStandard,
	DeliveryPartialAllowed,
	DeliveryPartialNotAllowed,
	DeliveryStandardPacking,
	DeliveryBuyerWarehouse,
	DeliverySellerWarehouse,
	DeliveryCustom,
}

var deliveryTermLabels = map[string]bilingual{
	DeliveryStandard:          {TR: "Standart teslim koşulları", EN: "Standard delivery terms"},
	DeliveryPartialAllowed:    {TR: "Kısmi sevkiyata izin verilir", EN: "Partial shipment allowed"},
	DeliveryPartialNotAllowed: {TR: "Kısmi sevkiyat yapılamaz", EN: "Partial shipment not allowed"},
	DeliveryStandardPacking:   {TR: "Standart ihracat paketleme", EN: "Standard export packing"},
	DeliveryBuyerWarehouse:    {TR: "Teslimat: Alıcının deposu / şantiyesi", EN: "Delivery: Buyer's warehouse / site"},
	DeliverySellerWarehouse:   {TR: "Teslimat: Demart ofis / depo teslim", EN: "Delivery: Delivered to Demart warehouse/office"},
	DeliveryCustom:            {TR: "Özel (manuel girilecek)", EN: "Custom (manual entry)"},
}

// Payment modes.
type PaymentMode string

const (
	PaymentInvoicePlusDays PaymentMode = "invoice_plus_days"
	PaymentNetDays         PaymentMode = "net_days"
	PaymentExactDate       PaymentMode = "exact_date"
	PaymentAdvanceSplit    PaymentMode = "advance_delivery_split"
)

var paymentModeLabels = map[PaymentMode]bilingual{
	PaymentInvoicePlusDays: {TR: "Fatura + Gün", EN: "Invoice + Days"},
	PaymentNetDays:         {TR: "Net Gün", EN: "Net Days"},
	PaymentExactDate:       {TR: "Kesin Tarih", EN: "Exact Date"},
	PaymentAdvanceSplit:    {TR: "% Peşin + % Teslimatta", EN: "% Advance + % On Delivery"},
}

// Payment anchors for the invoice_plus_days mode.
type PaymentAnchor string

const (
	AnchorInvoiceDate      PaymentAnchor = "invoice_date"
	AnchorInvoiceIssueDate PaymentAnchor = "invoice_issue_date"
)

var paymentAnchorLabels = map[PaymentAnchor]bilingual{
	AnchorInvoiceDate:      {TR: "Fatura tarihinden itibaren", EN: "from invoice date"},
	AnchorInvoiceIssueDate: {TR: "Fatura kesim tarihinden itibaren", EN: "from invoice issue date"},
}

// PaymentModeLabel returns the display label for a payment mode, or the
// raw mode string when unmapped.
func PaymentModeLabel(mode PaymentMode, lang Language) string {
	if l, ok := paymentModeLabels[mode]; ok {
		return l.in(lang)
	}
	return string(mode)
}

// DeliveryTermLabel returns the display label for a delivery-term
// option, or the raw identifier when unmapped.
func DeliveryTermLabel(id string, lang Language) string {
	if l, ok := deliveryTermLabels[id]; ok {
		return l.in(lang)
	}
	return id
}
