package bot

import (
	"fmt"
	"time"
)

const (
	slashCommandActivateDescription   = "Mengaktifkan bot di channel ini"
	slashCommandDeactivateDescription = "Menonaktifkan bot di channel ini"

	messageActivated   = "**Status**\nBot diaktifkan di channel ini!"
	messageDeactivated = "**Status**\nBot dinonaktifkan di channel ini!"
	messageCooldown    = "**Cooldown**\nSilakan tunggu %.1f detik sebelum menggunakan perintah ini lagi."

	messageResetDone    = "✅ Riwayat percakapan di channel ini telah direset!"
	messageResetNothing = "ℹ️ Tidak ada riwayat percakapan yang perlu dihapus"

	messageUsageFormat     = "**Error**\nGunakan format: `%s%s %s`"
	messageDownloadFailed  = "**Error**\nGagal mengunduh file atau file terlalu besar (maksimal %dMB)!"
	messageUnexpectedError = "**Error**\nTerjadi kesalahan saat memproses pesan."

	messageTrendEmpty = "ℹ️ Belum ada pesan yang bisa dianalisis di channel ini."

	idleCardTitle       = "Bot Tidak Aktif"
	idleCardDescription = "Bot telah tidak aktif selama %s. Pilih opsi di bawah untuk melanjutkan:"
	idleNewLabel        = "New"
	idleContinueLabel   = "Continue"
	idleNewReply        = "✅ Percakapan baru telah dimulai! Kirim pesan untuk melanjutkan."
	idleContinueReply   = "✅ Melanjutkan percakapan! Kirim pesan untuk melanjutkan."

	messageUnknownAction = "⚠️ Tombol ini sudah tidak berlaku."

	colorBlue    = 0x3498db
	colorGreen   = 0x2ecc71
	colorBlurple = 0x5865f2
)

var commandUsageArgs = map[string]string{
	commandChat:  "[pertanyaan atau pesan]",
	commandThink: "[pertanyaan atau permintaan]",
	commandCari:  "[kata kunci pencarian]",
	commandGift:  "[pertanyaan atau permintaan]",
}

func usageMessage(prefix, command string) string {
	return fmt.Sprintf(messageUsageFormat, prefix, command, commandUsageArgs[command])
}

func cooldownMessage(remaining time.Duration) string {
	return fmt.Sprintf(messageCooldown, remaining.Seconds())
}

func downloadFailedMessage(maxMB int) string {
	return fmt.Sprintf(messageDownloadFailed, maxMB)
}

// idleDuration renders the timeout the way the card states it, e.g.
// "10 menit".
func idleDuration(d time.Duration) string {
	if d >= time.Minute && d%time.Minute == 0 {
		return fmt.Sprintf("%d menit", int(d/time.Minute))
	}
	return fmt.Sprintf("%d detik", int(d/time.Second))
}
