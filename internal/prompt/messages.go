package prompt

import (
	"fmt"
	"sort"
	"strings"
)

const DefaultSystemInstruction = `Jawab dengan bahasa Indonesia. Pastikan output rapi dan mudah dibaca di Discord menggunakan format Markdown:
- Gunakan # untuk heading besar, ## untuk subheading.
- Gunakan - untuk bullet point pada list.
- Gunakan ** untuk teks tebal, * untuk italic.
- Gunakan ` + "```" + ` untuk blok kode (contoh: ` + "```" + `python).
- Pisahkan paragraf dengan baris kosong.
- Batasi pesan agar tidak melebihi 2000 karakter.
- Jika ada tautan GIF dari Tenor, jangan analisis kontennya, tetapi respon seperti manusia biasa dengan nada ramah dan santai, misalnya "Haha, GIF-nya lucu banget, makasih ya!" atau sesuai konteks.`

const (
	messagePDFTooLarge     = "**Error**\nFile PDF terlalu besar. Maksimal %dMB."
	messageFileTooLarge    = "**Error**\nFile terlalu besar. Maksimal %dMB."
	MessageTimeout         = "**Error**\nTimeout: Permintaan memakan waktu terlalu lama."
	MessageGenerationError = "**Error**\nTerjadi kesalahan saat menghasilkan respons."
	MessageEmptyResponse   = "**Error**\nModel tidak memberikan jawaban. Silakan coba lagi."

	searchHeader        = "**Hasil Pencarian dari Google**\n\n"
	searchNoResults     = "**Hasil Pencarian**\nMaaf, tidak ada hasil yang ditemukan untuk pencarian ini."
	searchFailed        = "**Error**\nTerjadi kesalahan saat melakukan pencarian Google."
	searchItemFormat    = "- **%d. %s**\n  %s\n  Sumber: [Klik di sini](%s)\n\n"
	pageContentFormat   = "**Konten dari %s**\n%s\n"
	scrapeEmpty         = "Konten tidak ditemukan pada halaman tersebut."
	scrapeStatusFormat  = "**Error Scraping**\nHTTP %d: Gagal mengambil konten dari %s."
	scrapeTimeoutFormat = "**Error Scraping**\nTimeout saat mengambil konten dari %s."
	scrapeFailedFormat  = "**Error Scraping**\nGagal mengambil konten dari %s."
	sourcesHeader       = "**Sumber:**"
	searchPromptFormat  = "Berikan jawaban berdasarkan pencarian untuk: %s"
)

var supportedMIMETypes = map[string]string{
	"image/jpeg":      "image",
	"image/jpg":       "image",
	"image/png":       "image",
	"image/gif":       "image",
	"application/pdf": "pdf",
	"video/mp4":       "video",
	"video/mpeg":      "video",
	"audio/mp3":       "audio",
	"audio/mpeg":      "audio",
	"audio/wav":       "audio",
}

// IsSupportedMIMEType ignores parameters such as "; charset=utf-8".
func IsSupportedMIMEType(mimeType string) bool {
	_, ok := supportedMIMETypes[normalizeMIMEType(mimeType)]
	return ok
}

func normalizeMIMEType(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}

func UnsupportedFormatMessage() string {
	types := make([]string, 0, len(supportedMIMETypes))
	for t := range supportedMIMETypes {
		types = append(types, t)
	}
	sort.Strings(types)
	return "**Error**\nFormat file tidak didukung.\n**Format yang didukung:** " + strings.Join(types, ", ")
}

// SearchPrompt is the instruction sent alongside search results.
func SearchPrompt(query string) string {
	return fmt.Sprintf(searchPromptFormat, query)
}

// IsFailureReply reports whether reply is one of the error notices Respond
// and RespondOnce return in place of model output.
func IsFailureReply(reply string) bool {
	switch reply {
	case MessageTimeout, MessageGenerationError, MessageEmptyResponse:
		return true
	}
	return false
}
