package runtime

import "fmt"

const (
	msgHelp = "좌석 예약이나 도서 추천 관련 질문을 해주시면 도와드리겠습니다.\n\n" +
		"예시:\n• '좌석 예약하고 싶어'\n• '코딩 공부하는 책 추천해줘'"
	msgSeatList      = "이용 가능한 좌석 목록입니다. 원하시는 좌석을 선택해주세요."
	msgNoSeats       = "현재 이용 가능한 좌석이 없습니다. 잠시 후 다시 확인해주세요."
	msgBookList      = "요청에 적합한 도서 목록입니다. 관심 있는 책을 선택하여 대출 가능한 자료를 확인해보세요."
	msgCancelled     = "취소되었습니다. 다른 도움이 필요하시면 말씀해주세요!"
	msgGatewayFailed = "현재 목록을 불러올 수 없습니다. 잠시 후 다시 시도해주세요."
	msgSeatBooked    = "좌석 예약이 완료되었습니다."
	msgHoldRequest   = "북 사이렌오더 신청"
	msgYes           = "예"
	msgNo            = "아니오"
)

func msgSeatSelected(location, name string) string {
	return fmt.Sprintf("%s의 %s 선택", location, name)
}

func msgSeatPrompt(display string) string {
	return fmt.Sprintf("%s 좌석을 예약하시겠습니까?", display)
}

func msgBiblioSelected(title string) string {
	return fmt.Sprintf("'%s' 선택", title)
}

func msgItemList(title string, n int) string {
	if n == 0 {
		return fmt.Sprintf("'%s'은(는) 현재 대출 가능한 자료가 없습니다.", title)
	}
	return fmt.Sprintf("'%s'의 대출 가능한 자료 %d건입니다. 자료를 선택하면 상세 정보를 확인할 수 있습니다.", title, n)
}

func msgItemSelected(title, location string) string {
	return fmt.Sprintf("'%s' (%s) 선택", title, location)
}

func msgItemDetail(title string) string {
	return fmt.Sprintf("'%s' 자료 정보입니다. 북 사이렌오더로 대출 예약을 신청할 수 있습니다.", title)
}

func msgHoldPrompt(title string) string {
	return fmt.Sprintf("'%s' 자료를 북 사이렌오더로 신청하시겠습니까?", title)
}

func msgHoldPlaced(location string) string {
	return fmt.Sprintf("북 사이렌오더 신청이 완료되었습니다. %s에서 수령해주세요.", location)
}

func msgPurchaseRequested(title string) string {
	return fmt.Sprintf("'%s' 희망도서 구입 신청", title)
}

func msgPurchaseHandoff(title string) string {
	return fmt.Sprintf("'%s' 희망도서 구입 신청이 접수되었습니다. 처리 결과는 도서관에서 별도로 안내드립니다.", title)
}
