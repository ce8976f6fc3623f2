package core

const AVG_COUNT uint8 = 30

// Metrics tracks averaged frame time, frames per second and the draw calls
// issued per frame.
type Metrics struct {
	FrameAVGCounter    uint8
	MStimes            [AVG_COUNT]float64
	MSavg              float64
	Frames             int32
	AccumulatedFrameMS float64
	FPS                float64
	DrawCalls          int32
	DrawCallsSkipped   int32
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) Update(frameElapsedTime float64, drawCalls, drawCallsSkipped int32) {
	// Calculate frame ms average
	frameMS := frameElapsedTime * 1000.0
	m.MStimes[m.FrameAVGCounter] = frameMS
	if m.FrameAVGCounter == AVG_COUNT-1 {
		m.MSavg = 0
		for i := uint8(0); i < AVG_COUNT; i++ {
			m.MSavg += m.MStimes[i]
		}
		m.MSavg /= float64(AVG_COUNT)
	}
	m.FrameAVGCounter++
	m.FrameAVGCounter %= AVG_COUNT

	// Calculate Frames per second.
	m.AccumulatedFrameMS += frameMS
	if m.AccumulatedFrameMS > 1000 {
		m.FPS = float64(m.Frames)
		m.AccumulatedFrameMS -= 1000
		m.Frames = 0
	}

	m.DrawCalls = drawCalls
	m.DrawCallsSkipped = drawCallsSkipped

	// Count all Frames.
	m.Frames++
}

func (m *Metrics) FrameTime() float64 {
	return m.MSavg
}

func (m *Metrics) Frame() (float64, float64) {
	return m.FPS, m.MSavg
}
