package msg

// sent by the console link to the publishers

type FaderMessage struct {
	Kind      string
	Number    int
	Name      string
	Level     float32
	LevelText string
	Decibel   float64
	On        bool
	Color     string
	Display   string
}

type CueMessage struct {
	Text string
	Mode string
}

type MeterMessage struct {
	ID     int
	Data   []byte
	Values []float32
}

type ConnectionMessage struct {
	Host      string
	Connected bool
}

// sent to the console link

type UpdateRequest struct {
}
