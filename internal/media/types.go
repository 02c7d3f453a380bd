package media

type Type string

const (
	// TypeFull covers the whole 64x32 panel.
	TypeFull Type = "full"
	// TypeCover is album art, scaled to the panel height.
	TypeCover Type = "cover"
)

func (t Type) Size() (w int, h int) {
	switch t {
	case TypeFull:
		return 64, 32
	case TypeCover:
		return 32, 32
	default:
		return 0, 0
	}
}
