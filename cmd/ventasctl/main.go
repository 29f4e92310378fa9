// ventasctl es la herramienta de línea de comandos del core de ventas:
// aplica migraciones y emite estados financieros por propietario.
package main

func main() {
	Execute()
}
