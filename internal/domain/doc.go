// Package domain models data from the INE (Statistics Portugal) indicator API.
//
// # Data Source
//
// Observations come from the public INE JSON API at
// https://www.ine.pt/ine/json_indicador/pindica.jsp. The job queries a single
// indicator (0008074, "Crimes recorded by the police per thousand
// inhabitants") year by year and consolidates the results.
//
// # API Conventions
//
// Query shape:
//
//	pindica.jsp?varcd=<indicator>&lang=EN&op=2&Dim1=<yearToken>
//
// Year tokens encode the first dimension of the indicator: "S7A2011" asks for
// data starting at 2011. The API reports the newest year it holds in the
// "UltimoPref" field of the first response element, which bounds the range of
// tokens the job generates (2011 through UltimoPref, inclusive).
//
// Response shape:
//
//	A JSON array whose first element carries the indicator metadata and a
//	"Dados" object keyed by year:
//
//	  [{"IndicadorCod":"0008074","UltimoPref":"2022",
//	    "Dados":{"2011":[{"geocod":"11","geodsg":"Norte",
//	                      "dim_3":"100","dim_3_t":"Total","valor":"32.1",
//	                      "sinal_conv":"","sinal_conv_desc":""}, ...]}}]
//
// Observation fields:
//
//	geocod / geodsg   NUTS region code and name
//	dim_3 / dim_3_t   crime category code and name
//	valor             the observed value, formatted by the API (kept as text)
//	sinal_conv(_desc) convention-flag bookkeeping, dropped during transform
//
// # Raw Mapping
//
// The per-year "Dados" payloads are merged into a single RawMapping with one
// top-level key per year. Year order is the order years were added, which for
// a full run is ascending because tokens are generated ascending. The raw
// mapping is persisted verbatim as the extraction artifact and is also the
// transformer's input, so a year that failed to fetch is simply absent.
package domain
