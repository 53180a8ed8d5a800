package synth

import "github.com/docvoice/docvoice/internal/textproc"

// InstructionForScript returns the pronunciation instruction sent with every
// chunk of a document whose dominant script was detected. Latin needs no
// hint and unknown gets none.
func InstructionForScript(s textproc.Script) string {
	switch s {
	case textproc.ScriptArabic:
		return "Read the text aloud in Arabic with natural Modern Standard Arabic pronunciation."
	case textproc.ScriptDevanagari:
		return "Read the text aloud in Hindi with natural Devanagari-script pronunciation."
	case textproc.ScriptCyrillic:
		return "Read the text aloud with natural Russian pronunciation."
	default:
		return ""
	}
}
