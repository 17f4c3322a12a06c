package discovery

// DefaultTarget is the built-in target instrument: Rigol DP800 series.
var DefaultTarget = Signature{VendorID: 0x1AB1, ProductID: 0x0E11}

// knownInstruments maps signatures to vendor labels. Best effort only.
var knownInstruments = map[Signature]string{
	{VendorID: 0x1AB1, ProductID: 0x0E11}: "Rigol DP800 Series",
	{VendorID: 0x1AB1, ProductID: 0x0E10}: "Rigol DP700 Series",
	{VendorID: 0x2A8D, ProductID: 0x1102}: "Keysight E36300 Series",
	{VendorID: 0x0957, ProductID: 0x5707}: "Agilent N5700 Series",
	{VendorID: 0xF4EC, ProductID: 0x1430}: "Siglent SPD3303X",
	{VendorID: 0x0AAD, ProductID: 0x0135}: "Rohde & Schwarz HMC804x",
	{VendorID: 0x05E6, ProductID: 0x2230}: "Keithley 2230 Series",
	{VendorID: 0x0699, ProductID: 0x0392}: "Tektronix PWS4000 Series",
}

// LookupLabel returns the vendor label for sig, if known.
func LookupLabel(sig Signature) (string, bool) {
	label, ok := knownInstruments[sig]
	return label, ok
}
