package chat

var (
	ErrNameInvalid       = errorString("nombre_invalido")
	ErrNameTaken         = errorString("nombre_duplicado")
	ErrServerFull        = errorString("servidor_lleno")
	ErrRecipientNotFound = errorString("destinatario_no_encontrado")
)

type errorString string

func (e errorString) Error() string { return string(e) }
