package assistant_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"sistersaas.app/assistant/internal/assistant"
	"sistersaas.app/assistant/internal/model"
)

var _ = Describe("History", func() {
	var history *assistant.History

	BeforeEach(func() {
		history = assistant.NewHistory()
	})

	Describe("RecentWindow", func() {
		It("returns all turns in order when fewer than the window", func() {
			history.Append(assistant.Turn{Role: model.RoleUser, Content: "a"})
			history.Append(assistant.Turn{Role: model.RoleAssistant, Content: "b"})

			window := history.RecentWindow(10)

			Expect(window).To(HaveLen(2))
			Expect(window[0].Role).To(Equal(model.RoleUser))
			Expect(window[0].Content).To(Equal("a"))
			Expect(window[1].Role).To(Equal(model.RoleAssistant))
			Expect(window[1].Content).To(Equal("b"))
		})

		It("keeps only the most recent n turns, chronologically", func() {
			for i := 0; i < 15; i++ {
				history.Append(assistant.Turn{Role: model.RoleUser, Content: fmt.Sprintf("turn-%d", i)})
			}

			window := history.RecentWindow(10)

			Expect(window).To(HaveLen(10))
			Expect(window[0].Content).To(Equal("turn-5"))
			Expect(window[9].Content).To(Equal("turn-14"))
		})

		It("excludes system turns", func() {
			history.Append(assistant.Turn{Role: model.RoleSystem, Content: "sys"})
			history.Append(assistant.Turn{Role: model.RoleUser, Content: "hi"})

			window := history.RecentWindow(10)

			Expect(window).To(HaveLen(1))
			Expect(window[0].Content).To(Equal("hi"))
		})

		It("is empty for an empty history or a non-positive window", func() {
			Expect(history.RecentWindow(10)).To(BeEmpty())
			history.Append(assistant.Turn{Role: model.RoleUser, Content: "hi"})
			Expect(history.RecentWindow(0)).To(BeEmpty())
		})
	})

	Describe("Clear", func() {
		It("discards everything", func() {
			history.Append(assistant.Turn{Role: model.RoleUser, Content: "a"})
			history.Append(assistant.Turn{Role: model.RoleAssistant, Content: "b"})

			history.Clear()

			Expect(history.Len()).To(BeZero())
			Expect(history.RecentWindow(10)).To(BeEmpty())
			Expect(history.Snapshot(10)).To(BeEmpty())
		})
	})

	Describe("Snapshot", func() {
		It("returns a copy that does not alias internal state", func() {
			history.Append(assistant.Turn{Role: model.RoleUser, Content: "a"})

			snap := history.Snapshot(10)
			snap[0].Content = "mutated"

			Expect(history.Snapshot(10)[0].Content).To(Equal("a"))
		})

		It("limits to the most recent turns", func() {
			for i := 0; i < 5; i++ {
				history.Append(assistant.Turn{Role: model.RoleUser, Content: fmt.Sprintf("turn-%d", i)})
			}

			snap := history.Snapshot(2)

			Expect(snap).To(HaveLen(2))
			Expect(snap[0].Content).To(Equal("turn-3"))
			Expect(snap[1].Content).To(Equal("turn-4"))
		})
	})

	Describe("NewHistoryFromTurns", func() {
		It("rebuilds the log in order without aliasing the input", func() {
			turns := []assistant.Turn{
				{Role: model.RoleUser, Content: "a"},
				{Role: model.RoleAssistant, Content: "b"},
			}

			history = assistant.NewHistoryFromTurns(turns)
			turns[0].Content = "mutated"

			Expect(history.Len()).To(Equal(2))
			Expect(history.Snapshot(10)[0].Content).To(Equal("a"))
		})
	})
})
