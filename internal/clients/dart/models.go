package dart

// Report codes for periodic filings.
const (
	ReportQ1     = "11013" // 1st quarter report
	ReportHalf   = "11012" // half-year report (Q2 cumulative)
	ReportQ3     = "11014" // 3rd quarter report (Q3 cumulative)
	ReportAnnual = "11011" // annual report (Q4 cumulative)
)

// reportCodeByQuarter maps a fiscal quarter to its filing's report code.
var reportCodeByQuarter = map[int]string{
	1: ReportQ1,
	2: ReportHalf,
	3: ReportQ3,
	4: ReportAnnual,
}

// statusEnvelope is the application-level status every DART endpoint
// carries. "000" is success; "013" means the query matched no data.
type statusEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

const (
	statusOK     = "000"
	statusNoData = "013"
)

type companyResponse struct {
	statusEnvelope
	CorpName     string `json:"corp_name"`
	CorpNameEng  string `json:"corp_name_eng"`
	StockCode    string `json:"stock_code"`
	CEOName      string `json:"ceo_nm"`
	CorpClass    string `json:"corp_cls"` // Y: KOSPI, K: KOSDAQ, N: KONEX, E: other
	Address      string `json:"adres"`
	Homepage     string `json:"hm_url"`
	IndustryCode string `json:"induty_code"`
	EstablishedD string `json:"est_dt"`
}

type accountRow struct {
	AccountName   string `json:"account_nm"`
	FSDiv         string `json:"fs_div"` // CFS: consolidated, OFS: standalone
	CurrentAmount string `json:"thstrm_amount"`
}

type statementResponse struct {
	statusEnvelope
	List []accountRow `json:"list"`
}

type disclosureRow struct {
	ReportName string `json:"report_nm"`
	ReceiptNo  string `json:"rcept_no"`
	Filer      string `json:"flr_nm"`
	ReceiptDt  string `json:"rcept_dt"`
}

type listResponse struct {
	statusEnvelope
	List []disclosureRow `json:"list"`
}

// marketFromCorpClass maps DART's corp_cls flag to a market segment name.
func marketFromCorpClass(cls string) string {
	switch cls {
	case "Y":
		return "KOSPI"
	case "K":
		return "KOSDAQ"
	case "N":
		return "KONEX"
	default:
		return ""
	}
}
