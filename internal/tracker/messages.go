package tracker

// User-facing text. The product ships in Indonesian.
const (
	textNoStudents    = "Belum ada mahasiswa terdaftar."
	textRosterFailed  = "Gagal memuat data (cek backend)."
	textNoSubmissions = "Belum ada link tugas yang disimpan."
	textHistoryFailed = "Gagal memuat riwayat."

	textFieldsRequired = "Semua field wajib diisi."
	textUploadFailed   = "Gagal menyimpan link."
	textUploaded       = "Link tersimpan."
	textUploadNetwork  = "Terjadi kesalahan jaringan."

	textPasswordFirst = "Isi sandi dulu sebelum menghapus tugas."
	textConfirmDelete = "Yakin ingin menghapus tugas ini?"
	textDeleteFailed  = "Gagal menghapus tugas."
	textDeleted       = "Tugas dihapus."
	textDeleteNetwork = "Gagal menghapus tugas (network error)."

	textNoStudentID     = "Student ID tidak ditemukan di URL."
	textStudentNotFound = "Mahasiswa tidak ditemukan."
	textDetailFailed    = "Terjadi kesalahan saat memuat data."
)
