package alert

import (
	"fmt"
	"strings"
	"time"
)

const (
	divider = "━━━━━━━━━━━━━━━━━━━━"

	// MaxCoordinateLines is the default cap on per-detection coordinate
	// lines; above it only the summary message is sent.
	MaxCoordinateLines = 10
)

// Composer renders alert text in the group-chat format the deployment's
// recipients expect.
type Composer struct {
	province           string
	districts          []string
	loc                *time.Location
	maxCoordinateLines int
}

// NewComposer creates a composer. maxCoordinateLines <= 0 falls back to the
// default cap.
func NewComposer(province string, districts []string, loc *time.Location, maxCoordinateLines int) *Composer {
	if maxCoordinateLines <= 0 {
		maxCoordinateLines = MaxCoordinateLines
	}
	return &Composer{
		province:           province,
		districts:          districts,
		loc:                loc,
		maxCoordinateLines: maxCoordinateLines,
	}
}

// Messages renders an alert as ordered text bodies: a summary, and a
// coordinates listing when the novel set is small enough to enumerate.
func (c *Composer) Messages(a *Alert) []string {
	var summary strings.Builder
	fmt.Fprintf(&summary, "🔥 พบจุดความร้อน (Hotspot) ใหม่!\n%s\n", divider)
	fmt.Fprintf(&summary, "📍 พื้นที่: จ.%s\n", c.province)
	for _, district := range a.Districts {
		count := 0
		for i := range a.Hotspots {
			if a.Hotspots[i].District == district {
				count++
			}
		}
		if count > 0 {
			fmt.Fprintf(&summary, "  • %s: %d จุด\n", district, count)
		}
	}
	fmt.Fprintf(&summary, "\n🛰️ แหล่งข้อมูล: GISTDA/VIIRS\n")
	fmt.Fprintf(&summary, "📅 เวลาตรวจพบ: %s\n", ThaiDateTime(a.Timestamp, c.loc))
	fmt.Fprintf(&summary, "🔢 จำนวนจุดใหม่: %d จุด\n\n", a.NewCount)
	fmt.Fprintf(&summary, "👉 ดูรายละเอียด: https://dnp.gistda.or.th/")

	messages := []string{summary.String()}

	if n := len(a.Hotspots); n > 0 && n <= c.maxCoordinateLines {
		var coords strings.Builder
		coords.WriteString("📌 พิกัดจุดความร้อน:\n")
		for i := range a.Hotspots {
			h := &a.Hotspots[i]
			district := h.District
			if district == "" {
				district = "ไม่ทราบพื้นที่"
			}
			gridRef := h.GridRef
			if gridRef == "" {
				gridRef = "N/A"
			}
			fmt.Fprintf(&coords, "\n%d. %s\n   📍 UTM: %s\n   📌 Lat,Long: %.4f, %.4f\n",
				i+1, district, gridRef, h.Latitude, h.Longitude)
		}
		messages = append(messages, strings.TrimRight(coords.String(), "\n"))
	}

	return messages
}

// NoHotspotMessage renders the all-clear status body sent when a completed
// check found nothing new.
func (c *Composer) NoHotspotMessage(now time.Time) []string {
	return []string{fmt.Sprintf(`✅ ตรวจสอบจุดความร้อนเสร็จสิ้น
%s
📍 พื้นที่: จ.%s
📅 เวลา: %s

🎉 ไม่พบจุดความร้อนใหม่ในพื้นที่`, divider, c.province, ThaiDateTime(now, c.loc))}
}

// TestMessage renders the channel-verification body.
func (c *Composer) TestMessage(now time.Time) []string {
	return []string{fmt.Sprintf(`🧪 ทดสอบระบบแจ้งเตือน Hotspot
%s
📅 เวลา: %s

✅ ระบบทำงานปกติ
📍 พื้นที่ตรวจสอบ: จ.%s
🏘️ อำเภอ: %s`, divider, ThaiDateTime(now, c.loc), c.province, strings.Join(c.districts, ", "))}
}
