// Package feed filters the shared announcement list per viewer.
package feed

import (
	"sort"

	"github.com/Jeferson202121/GEST-O-BJJ-PRO/internal/model"
)

// Visible returns the announcements a student sees: those tagged with the
// student's instructor, newest first.
func Visible(feed []model.Announcement, viewer model.Account) []model.Announcement {
	out := filter(feed, viewer.TeacherID)
	Newest(out)
	return out
}

// ForInstructor returns the instructor's own announcements in feed order.
func ForInstructor(feed []model.Announcement, instructorID string) []model.Announcement {
	return filter(feed, instructorID)
}

// Newest sorts by descending timestamp, keeping feed order on ties.
func Newest(list []model.Announcement) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Timestamp > list[j].Timestamp
	})
}

func filter(feed []model.Announcement, teacherID string) []model.Announcement {
	out := []model.Announcement{}
	if teacherID == "" {
		return out
	}
	for _, a := range feed {
		if a.TeacherID == teacherID {
			out = append(out, a)
		}
	}
	return out
}
