package delivery

// Channel enum
type Channel string

const (
	ChannelSend        Channel = "send"
	ChannelWhatsApp    Channel = "whatsapp"
	ChannelEmail       Channel = "email"
	ChannelSpreadsheet Channel = "spreadsheet"
	ChannelShare       Channel = "share"
	ChannelCloud       Channel = "cloud"
	ChannelCopy        Channel = "copy"
	ChannelExport      Channel = "export"
)

// ParseChannel validasi nama channel dari input luar
func ParseChannel(s string) (Channel, bool) {
	switch c := Channel(s); c {
	case ChannelSend, ChannelWhatsApp, ChannelEmail, ChannelSpreadsheet,
		ChannelShare, ChannelCloud, ChannelCopy, ChannelExport:
		return c, true
	}
	return "", false
}

// Artifact file hasil export
type Artifact struct {
	FileName  string `json:"fileName"`
	MediaType string `json:"mediaType"`
	Pages     int    `json:"pages,omitempty"`
	Data      []byte `json:"-"`
}

// Outcome hasil dispatch satu channel
type Outcome struct {
	Channel Channel `json:"channel"`
	// Via channel sebenarnya kalau Channel == send
	Via     Channel `json:"via,omitempty"`
	Link    string  `json:"link,omitempty"`
	Handoff string  `json:"handoff,omitempty"`
	// Opened true kalau handler eksternal berhasil dibuka di device ini
	Opened          bool      `json:"opened"`
	ImageCopied     bool      `json:"imageCopied"`
	TextCopied      bool      `json:"textCopied"`
	AlreadyUploaded bool      `json:"alreadyUploaded,omitempty"`
	Text            string    `json:"text,omitempty"`
	Guidance        string    `json:"guidance,omitempty"`
	Artifact        *Artifact `json:"artifact,omitempty"`
}

// UploadResult balasan upload target
type UploadResult struct {
	Link string
}

// PlaceholderLink dipakai kalau endpoint tidak balikin link
const PlaceholderLink = "(Link Foto tersedia di Google Drive Kantor)"
